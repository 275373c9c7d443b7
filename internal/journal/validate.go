package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kz-accountant/accountant/internal/id"
	"github.com/kz-accountant/accountant/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.EntryID, e.Description)
}

// AccountChecker tests whether an account ID exists in the account directory.
type AccountChecker interface {
	Exists(id string) bool
}

var hundred = decimal.NewFromInt(100)

// ValidateTransactions enforces the journal invariants on one month of transactions.
func ValidateTransactions(txns []model.Transaction, accounts AccountChecker, year, month int) []ValidationError {
	var errs []ValidationError

	for _, txn := range txns {
		// Invariant 1: Amount strictly positive; direction lives in Type.
		if !txn.Amount.IsPositive() {
			errs = append(errs, ValidationError{
				Invariant:   1,
				EntryID:     txn.ID,
				Description: fmt.Sprintf("amount %s must be positive", txn.Amount),
			})
		}

		// Invariant 2: No more than 2 decimal places.
		if !txn.Amount.Mul(hundred).Equal(txn.Amount.Mul(hundred).Floor()) {
			errs = append(errs, ValidationError{
				Invariant:   2,
				EntryID:     txn.ID,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", txn.Amount),
			})
		}

		// Invariant 3: Valid account references.
		if !accounts.Exists(txn.AccountID) {
			errs = append(errs, ValidationError{
				Invariant:   3,
				EntryID:     txn.ID,
				Description: fmt.Sprintf("unknown account %q", txn.AccountID),
			})
		}
		if txn.Type == model.TypeTransfer && txn.ToAccountID != "" && !accounts.Exists(txn.ToAccountID) {
			errs = append(errs, ValidationError{
				Invariant:   3,
				EntryID:     txn.ID,
				Description: fmt.Sprintf("unknown destination account %q", txn.ToAccountID),
			})
		}

		// Invariant 4: Date within month.
		if txn.Date.Year() != year || int(txn.Date.Month()) != month {
			errs = append(errs, ValidationError{
				Invariant:   4,
				EntryID:     txn.ID,
				Description: fmt.Sprintf("date %s not in %04d-%02d", txn.Date.Format(dateFormat), year, month),
			})
		}

		// Invariant 6: Shape by type.
		switch txn.Type {
		case model.TypeTransfer:
			if txn.ToAccountID == "" {
				errs = append(errs, ValidationError{Invariant: 6, EntryID: txn.ID, Description: "transfer without destination account"})
			}
			if txn.CounterpartyID != "" {
				errs = append(errs, ValidationError{Invariant: 6, EntryID: txn.ID, Description: "transfer must not carry a counterparty"})
			}
		case model.TypeIncome, model.TypeExpense:
			if txn.ToAccountID != "" {
				errs = append(errs, ValidationError{Invariant: 6, EntryID: txn.ID, Description: fmt.Sprintf("%s must not carry a destination account", txn.Type)})
			}
		default:
			errs = append(errs, ValidationError{Invariant: 6, EntryID: txn.ID, Description: fmt.Sprintf("unknown type %q", txn.Type)})
		}
	}

	// Invariant 5: Unique sequential IDs, contiguous 1..N.
	seqSeen := make(map[int]bool)
	for _, txn := range txns {
		_, _, seq, err := id.ParseEntryID(txn.ID)
		if err != nil {
			errs = append(errs, ValidationError{
				Invariant:   5,
				EntryID:     txn.ID,
				Description: fmt.Sprintf("invalid entry ID: %v", err),
			})
			continue
		}
		if seqSeen[seq] {
			errs = append(errs, ValidationError{
				Invariant:   5,
				EntryID:     txn.ID,
				Description: "duplicate entry ID",
			})
		}
		seqSeen[seq] = true
	}
	for i := 1; i <= len(seqSeen); i++ {
		if !seqSeen[i] {
			errs = append(errs, ValidationError{
				Invariant:   5,
				EntryID:     fmt.Sprintf("seq %d", i),
				Description: fmt.Sprintf("missing sequence %d in 1..%d", i, len(seqSeen)),
			})
		}
	}

	return errs
}
