package importer

import (
	"strings"
	"unicode"

	"github.com/kz-accountant/accountant/internal/model"
)

// AccountResolver maps bank account identifiers to accounts of a directory
// snapshot. It never mutates the directory.
type AccountResolver struct {
	accounts []model.Account
	selected string
	known    map[string]bool
}

// NewAccountResolver builds a resolver over accounts. selectedID is the
// account the caller pre-selected for this import, or empty.
func NewAccountResolver(accounts []model.Account, selectedID string) *AccountResolver {
	known := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		if n := NormalizeIIK(a.AccountNumber); n != "" {
			known[n] = true
		}
	}
	return &AccountResolver{accounts: accounts, selected: selectedID, known: known}
}

// ByIdentifier finds the account whose AccountNumber equals raw after
// trimming, retrying with all whitespace removed from both sides.
func (r *AccountResolver) ByIdentifier(raw string) (model.Account, bool) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return model.Account{}, false
	}
	for _, a := range r.accounts {
		if a.AccountNumber != "" && strings.TrimSpace(a.AccountNumber) == id {
			return a, true
		}
	}
	compact := stripSpaces(id)
	for _, a := range r.accounts {
		if a.AccountNumber != "" && stripSpaces(a.AccountNumber) == compact {
			return a, true
		}
	}
	return model.Account{}, false
}

// Default returns the pre-selected account, else the first account of the
// preferred type, else the first account.
func (r *AccountResolver) Default(preferred model.AccountType) (model.Account, bool) {
	if a, ok := r.ByID(r.selected); ok {
		return a, true
	}
	for _, a := range r.accounts {
		if a.Type == preferred {
			return a, true
		}
	}
	if len(r.accounts) > 0 {
		return r.accounts[0], true
	}
	return model.Account{}, false
}

// ByID returns the account with the given ID.
func (r *AccountResolver) ByID(id string) (model.Account, bool) {
	if id == "" {
		return model.Account{}, false
	}
	for _, a := range r.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return model.Account{}, false
}

// Known reports whether raw names one of the directory's account numbers
// after normalization.
func (r *AccountResolver) Known(raw string) bool {
	n := NormalizeIIK(raw)
	return n != "" && r.known[n]
}

// Selected reports whether the caller pre-selected a valid account.
func (r *AccountResolver) Selected() bool {
	_, ok := r.ByID(r.selected)
	return ok
}

// Empty reports whether the directory has no accounts.
func (r *AccountResolver) Empty() bool {
	return len(r.accounts) == 0
}

// NormalizeIIK trims, upper-cases and strips every non-alphanumeric rune.
func NormalizeIIK(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return -1
	}, strings.TrimSpace(raw))
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
