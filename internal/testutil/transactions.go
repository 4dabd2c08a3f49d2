package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/meu-bolso/internal/model"
)

// TransactionBuilder builds TransactionInputs fluently, dated FixedNow
// unless told otherwise.
type TransactionBuilder struct {
	in model.TransactionInput
}

// Expense starts an expense of amount in categoryID.
func Expense(amount int64, categoryID string) *TransactionBuilder {
	return &TransactionBuilder{in: model.TransactionInput{
		Type:       model.TypeExpense,
		Amount:     decimal.NewFromInt(amount),
		CategoryID: categoryID,
		Date:       FixedNow,
	}}
}

// Income starts an income of amount in categoryID.
func Income(amount int64, categoryID string) *TransactionBuilder {
	return &TransactionBuilder{in: model.TransactionInput{
		Type:       model.TypeIncome,
		Amount:     decimal.NewFromInt(amount),
		CategoryID: categoryID,
		Date:       FixedNow,
	}}
}

// Amount sets an exact decimal amount, e.g. "12.34".
func (b *TransactionBuilder) Amount(s string) *TransactionBuilder {
	b.in.Amount = decimal.RequireFromString(s)
	return b
}

// On sets the date.
func (b *TransactionBuilder) On(date time.Time) *TransactionBuilder {
	b.in.Date = date
	return b
}

// DaysAgo dates the transaction n days before FixedNow.
func (b *TransactionBuilder) DaysAgo(n int) *TransactionBuilder {
	b.in.Date = FixedNow.AddDate(0, 0, -n)
	return b
}

// Describe sets the description.
func (b *TransactionBuilder) Describe(desc string) *TransactionBuilder {
	b.in.Description = desc
	return b
}

// External sets the import identifier.
func (b *TransactionBuilder) External(id string) *TransactionBuilder {
	b.in.ExternalID = id
	return b
}

// Input returns the built value.
func (b *TransactionBuilder) Input() model.TransactionInput {
	return b.in
}
