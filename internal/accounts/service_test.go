package accounts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz-accountant/accountant/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testService() *Service {
	return NewService([]model.Account{
		{ID: "bank", Name: "Bank", Type: model.AccountTypeBank, Balance: dec("1000"), Currency: "KZT"},
		{ID: "cash", Name: "Cash", Type: model.AccountTypeCash, Balance: dec("100"), Currency: "KZT"},
	})
}

func TestGetExists(t *testing.T) {
	svc := testService()

	acct, ok := svc.Get("bank")
	assert.True(t, ok)
	assert.Equal(t, "Bank", acct.Name)

	_, ok = svc.Get("nope")
	assert.False(t, ok)

	assert.True(t, svc.Exists("cash"))
	assert.False(t, svc.Exists("nope"))
}

func TestByType(t *testing.T) {
	svc := testService()
	banks := svc.ByType(model.AccountTypeBank)
	require.Len(t, banks, 1)
	assert.Equal(t, "bank", banks[0].ID)
	assert.Empty(t, svc.ByType(model.AccountTypeWallet))
}

func TestAllReturnsCopy(t *testing.T) {
	svc := testService()
	all := svc.All()
	all[0].Name = "changed"

	acct, _ := svc.Get("bank")
	assert.Equal(t, "Bank", acct.Name)
}

func TestApply(t *testing.T) {
	svc := testService()
	day := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	err := svc.Apply([]model.Transaction{
		{ID: "2025-10-001", AccountID: "bank", Type: model.TypeIncome, Amount: dec("500"), Date: day},
		{ID: "2025-10-002", AccountID: "bank", Type: model.TypeExpense, Amount: dec("200.50"), Date: day},
		{ID: "2025-10-003", AccountID: "bank", ToAccountID: "cash", Type: model.TypeTransfer, Amount: dec("300"), Date: day},
	})
	require.NoError(t, err)

	bank, _ := svc.Get("bank")
	cash, _ := svc.Get("cash")
	assert.Equal(t, "999.50", bank.Balance.StringFixed(2))
	assert.Equal(t, "400.00", cash.Balance.StringFixed(2))
}

func TestApply_UnknownAccountLeavesBalances(t *testing.T) {
	svc := testService()

	err := svc.Apply([]model.Transaction{
		{ID: "2025-10-001", AccountID: "bank", Type: model.TypeIncome, Amount: dec("500")},
		{ID: "2025-10-002", AccountID: "bank", ToAccountID: "ghost", Type: model.TypeTransfer, Amount: dec("1")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")

	bank, _ := svc.Get("bank")
	assert.Equal(t, "1000.00", bank.Balance.StringFixed(2))
}

func TestSaveRoundTrip(t *testing.T) {
	svc := testService()

	dir := t.TempDir()
	require.NoError(t, svc.Save(dir))

	_, err := os.Stat(filepath.Join(dir, "accounts", "accounts.csv"))
	require.NoError(t, err)

	svc2, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc2.All(), 2)

	cash, ok := svc2.Get("cash")
	require.True(t, ok)
	assert.Equal(t, "100.00", cash.Balance.StringFixed(2))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
