package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/kz-accountant/accountant/internal/model"
)

// DefaultCurrency is used for accounts created without an explicit currency.
const DefaultCurrency = "KZT"

// DefaultAccounts returns the starter account directory for new books.
func DefaultAccounts(currency string) []model.Account {
	if currency == "" {
		currency = DefaultCurrency
	}
	return []model.Account{
		{ID: "cash", Name: "Касса", Type: model.AccountTypeCash, Balance: decimal.Zero, Currency: currency},
		{ID: "bank", Name: "Расчетный счет", Type: model.AccountTypeBank, Balance: decimal.Zero, Currency: currency},
	}
}
