package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType carries the direction of money movement.
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// Transaction is a single movement of money produced by an import and kept
// in the journal.
type Transaction struct {
	ID             string // journal entry ID, empty until persisted
	AccountID      string
	ToAccountID    string          // transfers only
	Amount         decimal.Decimal // always positive; Type carries the sign
	Type           TransactionType
	Date           time.Time
	Comment        string
	CategoryID     string
	CounterpartyID string // empty for transfers
	Currency       string
	DocumentNumber string
	AccountIIK     string // raw bank account identifier used for resolution
}

// SignedAmount returns the effect of t on the balance of accountID.
// Transfers are negative on the source leg and positive on the destination.
func (t Transaction) SignedAmount(accountID string) decimal.Decimal {
	switch t.Type {
	case TypeIncome:
		if t.AccountID == accountID {
			return t.Amount
		}
	case TypeExpense:
		if t.AccountID == accountID {
			return t.Amount.Neg()
		}
	case TypeTransfer:
		net := decimal.Zero
		if t.AccountID == accountID {
			net = net.Sub(t.Amount)
		}
		if t.ToAccountID == accountID {
			net = net.Add(t.Amount)
		}
		return net
	}
	return decimal.Zero
}
