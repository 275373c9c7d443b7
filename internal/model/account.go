package model

import "github.com/shopspring/decimal"

// AccountType classifies where money is held.
type AccountType string

const (
	AccountTypeBank   AccountType = "bank"
	AccountTypeCash   AccountType = "cash"
	AccountTypeWallet AccountType = "wallet"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeBank, AccountTypeCash, AccountTypeWallet:
		return true
	}
	return false
}

// Account represents a row in accounts.csv.
type Account struct {
	ID            string
	Name          string
	Type          AccountType
	Balance       decimal.Decimal
	Currency      string
	AccountNumber string // bank-assigned IIK/IBAN, optional
}
