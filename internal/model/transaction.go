package model

import (
	"strings"
	"time"

	"github.com/Veraticus/meu-bolso/internal/common"
	"github.com/shopspring/decimal"
)

// Transaction is a single dated money movement owned by one account.
type Transaction struct {
	Date        time.Time       `json:"date"`
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description,omitempty"`
	ExternalID  string          `json:"externalId,omitempty"` // e.g. OFX FITID, set by imports
	Category    Category        `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
}

// TransactionInput is a transaction without its id, as entered by the user.
type TransactionInput struct {
	Date        time.Time
	Type        TransactionType
	CategoryID  string
	Description string
	ExternalID  string
	Amount      decimal.Decimal
}

// TransactionPatch holds the fields to change on an existing transaction.
// Nil fields are left untouched.
type TransactionPatch struct {
	Date        *time.Time
	Type        *TransactionType
	CategoryID  *string
	Description *string
	Amount      *decimal.Decimal
}

// IsEmpty reports whether the patch changes nothing.
func (p TransactionPatch) IsEmpty() bool {
	return p.Date == nil && p.Type == nil && p.CategoryID == nil && p.Description == nil && p.Amount == nil
}

// Validate checks the shape of a stored transaction.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return common.NewValidationError("id", "transação sem identificador")
	}
	if !t.Type.Valid() {
		return common.NewValidationError("type", "tipo deve ser income ou expense")
	}
	if !t.Amount.IsPositive() {
		return common.NewValidationError("amount", "por favor, informe um valor válido")
	}
	if t.Date.IsZero() {
		return common.NewValidationError("date", "transação sem data")
	}
	if err := t.Category.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks the fields that do not depend on the account's categories.
func (in TransactionInput) Validate() error {
	if !in.Type.Valid() {
		return common.NewValidationError("type", "tipo deve ser income ou expense")
	}
	if !in.Amount.IsPositive() {
		return common.NewValidationError("amount", "por favor, informe um valor válido")
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return common.NewValidationError("category", "por favor, selecione uma categoria")
	}
	return nil
}

// ParseAmount parses a user-typed amount. Both "12.34" and "12,34" are accepted;
// only strictly positive values pass.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, common.NewValidationError("amount", "por favor, informe um valor válido")
	}
	return d, nil
}
