package model

import (
	"strings"

	"github.com/Veraticus/meu-bolso/internal/common"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	// TypeIncome marks money received.
	TypeIncome TransactionType = "income"
	// TypeExpense marks money spent.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ParseTransactionType accepts the English type names and their pt-BR labels.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "receita":
		return TypeIncome, nil
	case "expense", "despesa":
		return TypeExpense, nil
	default:
		return "", common.NewValidationError("type", "tipo deve ser income ou expense")
	}
}

// CategoryIcon is the display tag attached to a category.
type CategoryIcon string

const (
	IconCategory  CategoryIcon = "category"
	IconWallet    CategoryIcon = "wallet"
	IconPiggyBank CategoryIcon = "piggy-bank"
)

// NormalizeIcon maps unknown icon tags to IconCategory.
func NormalizeIcon(icon CategoryIcon) CategoryIcon {
	switch icon {
	case IconWallet, IconPiggyBank, IconCategory:
		return icon
	default:
		return IconCategory
	}
}

// Category classifies transactions of a single polarity for one account.
type Category struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Icon CategoryIcon    `json:"icon"`
	Type TransactionType `json:"type"`
}

// CategoryInput carries the user-supplied fields of a new category.
type CategoryInput struct {
	Name string
	Icon CategoryIcon
	Type TransactionType
}

// Validate checks the fields a stored category must carry.
func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return common.NewValidationError("id", "categoria sem identificador")
	}
	return CategoryInput{Name: c.Name, Icon: c.Icon, Type: c.Type}.Validate()
}

// Validate checks a new category before it is stored.
func (in CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return common.NewValidationError("name", "informe um nome para a categoria")
	}
	if !in.Type.Valid() {
		return common.NewValidationError("type", "tipo deve ser income ou expense")
	}
	return nil
}

// DefaultCategories returns the set seeded for every account on first use.
// The ids are fixed so seeded categories match across accounts and releases.
func DefaultCategories() []Category {
	return []Category{
		{ID: "cat1", Name: "Alimentação", Icon: IconCategory, Type: TypeExpense},
		{ID: "cat2", Name: "Transporte", Icon: IconCategory, Type: TypeExpense},
		{ID: "cat3", Name: "Moradia", Icon: IconCategory, Type: TypeExpense},
		{ID: "cat4", Name: "Educação", Icon: IconCategory, Type: TypeExpense},
		{ID: "cat5", Name: "Saúde", Icon: IconCategory, Type: TypeExpense},
		{ID: "cat6", Name: "Lazer", Icon: IconCategory, Type: TypeExpense},
		{ID: "cat7", Name: "Outras Despesas", Icon: IconCategory, Type: TypeExpense},
		{ID: "cat8", Name: "Salário", Icon: IconWallet, Type: TypeIncome},
		{ID: "cat9", Name: "Investimentos", Icon: IconPiggyBank, Type: TypeIncome},
		{ID: "cat10", Name: "Outras Receitas", Icon: IconWallet, Type: TypeIncome},
	}
}

// Fallback category ids used when an import cannot tell what a movement was for.
const (
	FallbackExpenseCategoryID = "cat7"
	FallbackIncomeCategoryID  = "cat10"
)
