package ledger

import (
	"context"
	"fmt"

	"github.com/Veraticus/meu-bolso/internal/common"
	"github.com/Veraticus/meu-bolso/internal/model"
)

// ImportResult summarizes an ImportTransactions call.
type ImportResult struct {
	Added   []model.Transaction
	Skipped int
}

// ImportTransactions adds a batch of drafts in one write. Drafts whose
// ExternalID is already recorded, or repeated within the batch, are skipped.
// If any draft is invalid nothing is stored.
func (l *Ledger) ImportTransactions(ctx context.Context, drafts []model.TransactionInput) (ImportResult, error) {
	if l.account == nil {
		return ImportResult{}, common.ErrNoSession
	}

	known := make(map[string]bool, len(l.transactions))
	for _, t := range l.transactions {
		if t.ExternalID != "" {
			known[t.ExternalID] = true
		}
	}

	var result ImportResult
	taken := make(map[string]bool, len(drafts))
	for i, draft := range drafts {
		if draft.ExternalID != "" && known[draft.ExternalID] {
			result.Skipped++
			continue
		}

		txn, err := l.build(draft)
		if err != nil {
			return ImportResult{}, fmt.Errorf("draft %d: %w", i+1, err)
		}
		for taken[txn.ID] {
			txn.ID = l.uniqueID()
		}
		taken[txn.ID] = true

		if draft.ExternalID != "" {
			known[draft.ExternalID] = true
		}
		result.Added = append(result.Added, txn)
	}

	if len(result.Added) == 0 {
		return result, nil
	}

	// Each draft lands in front of the previous one, as if added one by one.
	transactions := make([]model.Transaction, 0, len(l.transactions)+len(result.Added))
	for i := len(result.Added) - 1; i >= 0; i-- {
		transactions = append(transactions, result.Added[i])
	}
	transactions = append(transactions, l.transactions...)

	if err := l.persist(ctx, transactions, l.categories); err != nil {
		return ImportResult{}, err
	}

	common.LogInfo("Transactions imported", common.Fields{
		"account_id": l.account.ID,
		"added":      len(result.Added),
		"skipped":    result.Skipped,
	})
	return result, nil
}
