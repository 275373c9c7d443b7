package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz-accountant/accountant/internal/model"
)

type mockAccounts struct {
	ids map[string]bool
}

func (m *mockAccounts) Exists(id string) bool {
	return m.ids[id]
}

func newMockAccounts(ids ...string) *mockAccounts {
	m := &mockAccounts{ids: make(map[string]bool)}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

func expense(id, account, amount string) model.Transaction {
	return model.Transaction{ID: id, Date: date(2025, 10, 1), Type: model.TypeExpense, AccountID: account, Amount: dec(amount)}
}

func invariants(errs []ValidationError) []int {
	var out []int
	for _, e := range errs {
		out = append(out, e.Invariant)
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	txns := []model.Transaction{
		expense("2025-10-0001", "bank", "10.00"),
		{ID: "2025-10-0002", Date: date(2025, 10, 31), Type: model.TypeTransfer, AccountID: "bank", ToAccountID: "cash", Amount: dec("5")},
	}
	assert.Empty(t, ValidateTransactions(txns, newMockAccounts("bank", "cash"), 2025, 10))
}

func TestValidate_Invariant1_NonPositive(t *testing.T) {
	errs := ValidateTransactions([]model.Transaction{
		expense("2025-10-0001", "bank", "0"),
		expense("2025-10-0002", "bank", "-3"),
	}, newMockAccounts("bank"), 2025, 10)
	assert.Equal(t, []int{1, 1}, invariants(errs))
}

func TestValidate_Invariant2_TooManyDecimals(t *testing.T) {
	errs := ValidateTransactions([]model.Transaction{expense("2025-10-0001", "bank", "1.005")}, newMockAccounts("bank"), 2025, 10)
	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].Invariant)
}

func TestValidate_Invariant3_UnknownAccount(t *testing.T) {
	errs := ValidateTransactions([]model.Transaction{
		{ID: "2025-10-0001", Date: date(2025, 10, 1), Type: model.TypeTransfer, AccountID: "ghost", ToAccountID: "phantom", Amount: dec("1")},
	}, newMockAccounts(), 2025, 10)
	assert.Equal(t, []int{3, 3}, invariants(errs))
	assert.Contains(t, errs[1].Error(), "phantom")
}

func TestValidate_Invariant4_WrongMonth(t *testing.T) {
	txn := expense("2025-10-0001", "bank", "1")
	txn.Date = date(2025, 11, 1)
	errs := ValidateTransactions([]model.Transaction{txn}, newMockAccounts("bank"), 2025, 10)
	require.Len(t, errs, 1)
	assert.Equal(t, 4, errs[0].Invariant)
	assert.Contains(t, errs[0].Description, "2025-11-01")
}

func TestValidate_Invariant5_Sequence(t *testing.T) {
	errs := ValidateTransactions([]model.Transaction{
		expense("2025-10-0001", "bank", "1"),
		expense("2025-10-0003", "bank", "1"),
	}, newMockAccounts("bank"), 2025, 10)
	require.Len(t, errs, 1)
	assert.Equal(t, 5, errs[0].Invariant)
	assert.Contains(t, errs[0].Description, "missing sequence 2")

	dup := ValidateTransactions([]model.Transaction{
		expense("2025-10-0001", "bank", "1"),
		expense("2025-10-0001", "bank", "2"),
	}, newMockAccounts("bank"), 2025, 10)
	assert.Contains(t, invariants(dup), 5)

	bad := ValidateTransactions([]model.Transaction{expense("nope", "bank", "1")}, newMockAccounts("bank"), 2025, 10)
	assert.Equal(t, []int{5}, invariants(bad))
}

func TestValidate_Invariant6_Shape(t *testing.T) {
	errs := ValidateTransactions([]model.Transaction{
		{ID: "2025-10-0001", Date: date(2025, 10, 1), Type: model.TypeTransfer, AccountID: "bank", CounterpartyID: "cp", Amount: dec("1")},
		{ID: "2025-10-0002", Date: date(2025, 10, 1), Type: model.TypeIncome, AccountID: "bank", ToAccountID: "cash", Amount: dec("1")},
	}, newMockAccounts("bank", "cash"), 2025, 10)
	assert.Equal(t, []int{6, 6, 6}, invariants(errs))
}

func TestValidate_SameLegTransferAccepted(t *testing.T) {
	errs := ValidateTransactions([]model.Transaction{
		{ID: "2025-10-0001", Date: date(2025, 10, 1), Type: model.TypeTransfer, AccountID: "bank", ToAccountID: "bank", Amount: dec("1")},
	}, newMockAccounts("bank"), 2025, 10)
	assert.Empty(t, errs)
}

func TestValidate_Empty(t *testing.T) {
	assert.Empty(t, ValidateTransactions(nil, newMockAccounts(), 2025, 10))
}
