package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/meu-bolso/internal/model"
	"github.com/Veraticus/meu-bolso/internal/storage"
)

func TestSetupTestApp_Backends(t *testing.T) {
	for _, backend := range []string{storage.BackendMemory, storage.BackendFile, storage.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			a := SetupTestApp(t, AppOptions{Backend: backend})
			assert.Nil(t, a.Session())

			account := a.SignedIn()
			assert.Equal(t, DefaultEmail, account.Email)

			txs := a.MustAdd(
				Expense(50, "cat1").Describe("Mercado").Input(),
				Income(1000, "cat8").DaysAgo(1).Input(),
			)
			require.Len(t, txs, 2)
			assert.Equal(t, "Alimentação", txs[0].Category.Name)
			assert.Equal(t, FixedNow.AddDate(0, 0, -1), txs[1].Date)
			assert.Len(t, a.Ledger.Transactions(), 2)
		})
	}
}

func TestTransactionBuilder(t *testing.T) {
	in := Expense(1, "cat2").Amount("12.34").External("FIT1").Input()
	assert.Equal(t, model.TypeExpense, in.Type)
	assert.Equal(t, "12.34", in.Amount.String())
	assert.Equal(t, "FIT1", in.ExternalID)
	assert.NoError(t, in.Validate())
}
