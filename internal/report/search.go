package report

import (
	"strings"

	"github.com/ryanuber/go-glob"
	"golang.org/x/text/cases"

	"github.com/Veraticus/meu-bolso/internal/model"
)

// Query filters the transaction list. Zero-valued fields match everything.
type Query struct {
	// Term matches the description or category name, ignoring case. A term
	// containing * is matched as a glob against the whole text.
	Term       string
	Type       model.TransactionType
	CategoryID string
}

// Search returns the transactions matching q in their original order.
func Search(txs []model.Transaction, q Query) []model.Transaction {
	fold := cases.Fold()
	term := fold.String(strings.TrimSpace(q.Term))
	isGlob := strings.Contains(term, "*")

	matches := func(text string) bool {
		text = fold.String(text)
		if isGlob {
			return glob.Glob(term, text)
		}
		return strings.Contains(text, term)
	}

	out := make([]model.Transaction, 0, len(txs))
	for _, t := range txs {
		if q.Type != "" && t.Type != q.Type {
			continue
		}
		if q.CategoryID != "" && t.Category.ID != q.CategoryID {
			continue
		}
		if term != "" && !matches(t.Description) && !matches(t.Category.Name) {
			continue
		}
		out = append(out, t)
	}
	return out
}
