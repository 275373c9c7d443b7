package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSignedAmount(t *testing.T) {
	amt := decimal.RequireFromString("150.25")
	tests := []struct {
		name    string
		txn     Transaction
		account string
		want    string
	}{
		{"income own account", Transaction{AccountID: "a", Type: TypeIncome, Amount: amt}, "a", "150.25"},
		{"income other account", Transaction{AccountID: "a", Type: TypeIncome, Amount: amt}, "b", "0.00"},
		{"expense", Transaction{AccountID: "a", Type: TypeExpense, Amount: amt}, "a", "-150.25"},
		{"transfer source", Transaction{AccountID: "a", ToAccountID: "b", Type: TypeTransfer, Amount: amt}, "a", "-150.25"},
		{"transfer destination", Transaction{AccountID: "a", ToAccountID: "b", Type: TypeTransfer, Amount: amt}, "b", "150.25"},
		{"transfer same legs", Transaction{AccountID: "a", ToAccountID: "a", Type: TypeTransfer, Amount: amt}, "a", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.txn.SignedAmount(tt.account).StringFixed(2))
		})
	}
}

func TestTypesValid(t *testing.T) {
	assert.True(t, TypeIncome.Valid())
	assert.True(t, TypeTransfer.Valid())
	assert.False(t, TransactionType("refund").Valid())

	assert.True(t, AccountTypeBank.Valid())
	assert.True(t, AccountTypeWallet.Valid())
	assert.False(t, AccountType("asset").Valid())
}
