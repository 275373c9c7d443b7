package importer

import (
	"time"

	"github.com/shopspring/decimal"
)

// SkipReason explains why a row produced no transaction.
type SkipReason string

const (
	SkipMissingDate       SkipReason = "missing-date"
	SkipZeroAmount        SkipReason = "zero-amount"
	SkipAmbiguousAmount   SkipReason = "ambiguous-amount"
	SkipUnresolvedAccount SkipReason = "unresolved-account"
	SkipInternalTransfer  SkipReason = "internal-transfer"
)

// Skip records a dropped row. Index is the 1-based position of the row or
// document in the source.
type Skip struct {
	Index  int
	Reason SkipReason
}

// Row is a statement line normalized from any dialect. Debit/Credit are set
// for column dialects; Amount and the IIK pair for the exchange dialect.
type Row struct {
	Index          int
	Date           time.Time
	DocumentNumber string
	PayerName      string
	ReceiverName   string
	PayerIIK       string
	ReceiverIIK    string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	Amount         decimal.Decimal
	Purpose        string
	CategoryHint   string
	Currency       string
	AccountIIK     string // statement account for column dialects
}

// checkColumns applies the debit/credit row rules shared by column dialects.
func checkColumns(r Row) SkipReason {
	switch {
	case r.Date.IsZero():
		return SkipMissingDate
	case r.Debit.IsZero() && r.Credit.IsZero():
		return SkipZeroAmount
	case !r.Debit.IsZero() && !r.Credit.IsZero():
		return SkipAmbiguousAmount
	}
	return ""
}
