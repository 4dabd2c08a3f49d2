// Package ledger holds the active account's transactions and categories.
//
// The ledger keeps an in-memory view of one account at a time. Bind swaps the
// view when the session changes; every mutation rewrites both collections
// under the account's keys.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/meu-bolso/internal/common"
	"github.com/Veraticus/meu-bolso/internal/model"
	"github.com/Veraticus/meu-bolso/internal/storage"
)

// Ledger is the transaction and category store for the bound account.
type Ledger struct {
	kv           storage.Store
	now          func() time.Time
	newID        func() string
	account      *model.Account
	transactions []model.Transaction
	categories   []model.Category
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time used for transactions entered without a date.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator overrides how transaction and category ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

// New returns an unbound ledger showing no transactions and the default categories.
func New(kv storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		kv:         kv,
		now:        time.Now,
		newID:      uuid.NewString,
		categories: model.DefaultCategories(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Account returns the bound account, or nil when no session is active.
func (l *Ledger) Account() *model.Account {
	if l.account == nil {
		return nil
	}
	a := *l.account
	return &a
}

// Bind switches the ledger to account, reloading its persisted data. A nil
// account resets the view to empty with the default categories.
func (l *Ledger) Bind(ctx context.Context, account *model.Account) error {
	if account == nil {
		l.account = nil
		l.transactions = nil
		l.categories = model.DefaultCategories()
		slog.Debug("Ledger unbound")
		return nil
	}

	categories, seeded, err := l.loadCategories(ctx, account.ID)
	if err != nil {
		return err
	}
	transactions, err := l.loadTransactions(ctx, account.ID)
	if err != nil {
		return err
	}

	if seeded {
		if err := storage.PutJSON(ctx, l.kv, storage.CategoriesKey(account.ID), categories); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
		slog.Info("Seeded default categories", "account_id", account.ID)
	}

	bound := *account
	l.account = &bound
	l.transactions = transactions
	l.categories = categories

	slog.Debug("Ledger bound",
		"account_id", account.ID,
		"transactions", len(transactions),
		"categories", len(categories))
	return nil
}

// Transactions returns the bound account's transactions, most recently added first.
func (l *Ledger) Transactions() []model.Transaction {
	out := make([]model.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// Transaction looks up a transaction by id.
func (l *Ledger) Transaction(id string) (model.Transaction, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return model.Transaction{}, false
	}
	return l.transactions[idx], true
}

// Categories returns the bound account's categories in creation order.
func (l *Ledger) Categories() []model.Category {
	out := make([]model.Category, len(l.categories))
	copy(out, l.categories)
	return out
}

// Category looks up a category by id.
func (l *Ledger) Category(id string) (model.Category, bool) {
	for _, c := range l.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

// AddTransaction validates in and prepends it to the list.
func (l *Ledger) AddTransaction(ctx context.Context, in model.TransactionInput) (model.Transaction, error) {
	if l.account == nil {
		return model.Transaction{}, common.ErrNoSession
	}

	txn, err := l.build(in)
	if err != nil {
		return model.Transaction{}, err
	}

	transactions := make([]model.Transaction, 0, len(l.transactions)+1)
	transactions = append(transactions, txn)
	transactions = append(transactions, l.transactions...)

	if err := l.persist(ctx, transactions, l.categories); err != nil {
		return model.Transaction{}, err
	}

	common.LogInfo("Transaction added", common.Fields{
		"account_id":     l.account.ID,
		"transaction_id": txn.ID,
		"type":           string(txn.Type),
	})
	return txn, nil
}

// UpdateTransaction applies patch to the transaction with id. An unknown id
// is ignored. The merged transaction must pass the same checks as a new one.
func (l *Ledger) UpdateTransaction(ctx context.Context, id string, patch model.TransactionPatch) error {
	if l.account == nil {
		return common.ErrNoSession
	}

	idx := l.indexOf(id)
	if idx < 0 {
		slog.Debug("Update ignored, transaction not found", "transaction_id", id)
		return nil
	}
	current := l.transactions[idx]

	in := model.TransactionInput{
		Date:        current.Date,
		Type:        current.Type,
		CategoryID:  current.Category.ID,
		Description: current.Description,
		ExternalID:  current.ExternalID,
		Amount:      current.Amount,
	}
	if patch.Date != nil {
		in.Date = *patch.Date
	}
	if patch.Type != nil {
		in.Type = *patch.Type
	}
	if patch.CategoryID != nil {
		in.CategoryID = *patch.CategoryID
	}
	if patch.Description != nil {
		in.Description = *patch.Description
	}
	if patch.Amount != nil {
		in.Amount = *patch.Amount
	}

	updated, err := l.resolve(in)
	if err != nil {
		return err
	}
	updated.ID = current.ID
	if patch.CategoryID == nil {
		// Keep the snapshot taken when the transaction was recorded.
		updated.Category = current.Category
	}

	transactions := l.Transactions()
	transactions[idx] = updated

	if err := l.persist(ctx, transactions, l.categories); err != nil {
		return err
	}

	common.LogInfo("Transaction updated", common.Fields{
		"account_id":     l.account.ID,
		"transaction_id": id,
	})
	return nil
}

// DeleteTransaction removes the transaction with id if present. The list is
// written back either way.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	if l.account == nil {
		return common.ErrNoSession
	}

	transactions := make([]model.Transaction, 0, len(l.transactions))
	for _, t := range l.transactions {
		if t.ID != id {
			transactions = append(transactions, t)
		}
	}
	removed := len(transactions) != len(l.transactions)

	if err := l.persist(ctx, transactions, l.categories); err != nil {
		return err
	}

	common.LogInfo("Transaction deleted", common.Fields{
		"account_id":     l.account.ID,
		"transaction_id": id,
		"removed":        removed,
	})
	return nil
}

// AddCategory appends a new category to the bound account.
func (l *Ledger) AddCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	if l.account == nil {
		return model.Category{}, common.ErrNoSession
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return model.Category{}, err
	}

	category := model.Category{
		ID:   l.uniqueID(),
		Name: in.Name,
		Icon: model.NormalizeIcon(in.Icon),
		Type: in.Type,
	}

	categories := l.Categories()
	categories = append(categories, category)

	if err := l.persist(ctx, l.transactions, categories); err != nil {
		return model.Category{}, err
	}

	common.LogInfo("Category added", common.Fields{
		"account_id":  l.account.ID,
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

// build validates in and turns it into a transaction with a fresh id.
func (l *Ledger) build(in model.TransactionInput) (model.Transaction, error) {
	txn, err := l.resolve(in)
	if err != nil {
		return model.Transaction{}, err
	}
	txn.ID = l.uniqueID()
	return txn, nil
}

// resolve checks in against the account's categories. The result has no id.
func (l *Ledger) resolve(in model.TransactionInput) (model.Transaction, error) {
	if err := in.Validate(); err != nil {
		return model.Transaction{}, err
	}

	category, ok := l.Category(in.CategoryID)
	if !ok {
		return model.Transaction{}, common.NewValidationError("category", "categoria não encontrada")
	}
	if category.Type != in.Type {
		return model.Transaction{}, common.NewValidationError("category",
			fmt.Sprintf("a categoria %s não é do tipo %s", category.Name, typeLabel(in.Type)))
	}

	date := in.Date
	if date.IsZero() {
		date = l.now()
	}

	return model.Transaction{
		Date:        date,
		Type:        in.Type,
		Description: strings.TrimSpace(in.Description),
		ExternalID:  in.ExternalID,
		Category:    category,
		Amount:      in.Amount,
	}, nil
}

// persist writes both collections and only then swaps them into the view.
func (l *Ledger) persist(ctx context.Context, transactions []model.Transaction, categories []model.Category) error {
	if transactions == nil {
		transactions = []model.Transaction{}
	}
	if err := storage.PutJSON(ctx, l.kv, storage.TransactionsKey(l.account.ID), transactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	if err := storage.PutJSON(ctx, l.kv, storage.CategoriesKey(l.account.ID), categories); err != nil {
		return fmt.Errorf("failed to save categories: %w", err)
	}
	l.transactions = transactions
	l.categories = categories
	return nil
}

func (l *Ledger) loadTransactions(ctx context.Context, accountID string) ([]model.Transaction, error) {
	var raw []model.Transaction
	_, err := storage.GetJSON(ctx, l.kv, storage.TransactionsKey(accountID), &raw)
	if errors.Is(err, common.ErrMalformedData) {
		common.LogWarn("Discarding unreadable transactions", common.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		})
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	seen := make(map[string]bool, len(raw))
	transactions := make([]model.Transaction, 0, len(raw))
	for _, t := range raw {
		t.Category.Icon = model.NormalizeIcon(t.Category.Icon)
		if err := t.Validate(); err != nil {
			common.LogWarn("Skipping invalid transaction record", common.Fields{
				"account_id": accountID,
				"error":      err.Error(),
			})
			continue
		}
		if seen[t.ID] {
			common.LogWarn("Skipping duplicate transaction id", common.Fields{
				"account_id":     accountID,
				"transaction_id": t.ID,
			})
			continue
		}
		seen[t.ID] = true
		transactions = append(transactions, t)
	}
	return transactions, nil
}

// loadCategories returns the stored categories, or the defaults with seeded
// set when nothing usable is stored.
func (l *Ledger) loadCategories(ctx context.Context, accountID string) ([]model.Category, bool, error) {
	var raw []model.Category
	found, err := storage.GetJSON(ctx, l.kv, storage.CategoriesKey(accountID), &raw)
	if errors.Is(err, common.ErrMalformedData) {
		common.LogWarn("Discarding unreadable categories", common.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		})
		return model.DefaultCategories(), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load categories: %w", err)
	}
	if !found {
		return model.DefaultCategories(), true, nil
	}

	seen := make(map[string]bool, len(raw))
	categories := make([]model.Category, 0, len(raw))
	for _, c := range raw {
		c.Icon = model.NormalizeIcon(c.Icon)
		if err := c.Validate(); err != nil {
			common.LogWarn("Skipping invalid category record", common.Fields{
				"account_id": accountID,
				"error":      err.Error(),
			})
			continue
		}
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		categories = append(categories, c)
	}
	if len(categories) == 0 {
		return model.DefaultCategories(), true, nil
	}
	return categories, false, nil
}

func (l *Ledger) indexOf(id string) int {
	for i, t := range l.transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// uniqueID draws ids until one is unused by any transaction or category.
func (l *Ledger) uniqueID() string {
	for {
		id := l.newID()
		if l.indexOf(id) >= 0 {
			continue
		}
		if _, taken := l.Category(id); taken {
			continue
		}
		return id
	}
}

func typeLabel(t model.TransactionType) string {
	if t == model.TypeIncome {
		return "receita"
	}
	return "despesa"
}
