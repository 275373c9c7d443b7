package importer

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/kz-accountant/accountant/internal/model"
)

// Classification is the outcome of classifying one row.
type Classification struct {
	Type         model.TransactionType
	Account      model.Account
	ToAccount    model.Account // transfers only
	Counterparty string        // empty for transfers
	AccountIIK   string
	// SameLeg marks a transfer whose two legs resolved to one account.
	SameLeg bool
}

// nameMatcher reports whether text contains any of its patterns, comparing
// case-folded strings.
type nameMatcher struct {
	fold     cases.Caser
	patterns []string
}

func newNameMatcher(patterns []string) *nameMatcher {
	m := &nameMatcher{fold: cases.Fold()}
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			m.patterns = append(m.patterns, m.fold.String(p))
		}
	}
	return m
}

func (m *nameMatcher) Match(text string) bool {
	if text == "" || len(m.patterns) == 0 {
		return false
	}
	folded := m.fold.String(text)
	for _, p := range m.patterns {
		if strings.Contains(folded, p) {
			return true
		}
	}
	return false
}

// Classifier applies Policy A to debit/credit rows and Policy B to exchange
// documents.
type Classifier struct {
	accounts *AccountResolver
	fallback *model.Account
	owners   *nameMatcher
	internal *nameMatcher
}

// NewClassifier builds a classifier. fallback is the account used for rows
// that carry no usable identifier; nil means such rows are skipped.
// ownerNames match the business itself; transferKeywords mark self-transfers.
func NewClassifier(accounts *AccountResolver, fallback *model.Account, ownerNames, transferKeywords []string) *Classifier {
	return &Classifier{
		accounts: accounts,
		fallback: fallback,
		owners:   newNameMatcher(ownerNames),
		internal: newNameMatcher(transferKeywords),
	}
}

// ClassifyColumns is Policy A: the populated column decides the type. The
// row account comes from its identifier column, else the fallback.
func (c *Classifier) ClassifyColumns(r Row) (Classification, SkipReason) {
	if reason := checkColumns(r); reason != "" {
		return Classification{}, reason
	}

	acct, ok := c.columnAccount(r.AccountIIK)
	if !ok {
		return Classification{}, SkipUnresolvedAccount
	}

	cl := Classification{Account: acct, AccountIIK: r.AccountIIK}
	if r.Debit.IsPositive() {
		cl.Type = model.TypeExpense
		cl.Counterparty = r.ReceiverName
	} else {
		cl.Type = model.TypeIncome
		cl.Counterparty = r.PayerName
	}
	return c.exclude(cl, r)
}

func (c *Classifier) columnAccount(iik string) (model.Account, bool) {
	if iik != "" {
		if a, ok := c.accounts.ByIdentifier(iik); ok {
			return a, true
		}
	}
	if c.fallback != nil {
		return *c.fallback, true
	}
	return model.Account{}, false
}

// ClassifyExchange is Policy B: membership of the payer and receiver IIKs in
// the account directory decides the type.
func (c *Classifier) ClassifyExchange(r Row) (Classification, SkipReason) {
	payerKnown := c.accounts.Known(r.PayerIIK)
	receiverKnown := c.accounts.Known(r.ReceiverIIK)

	var cl Classification
	switch {
	case payerKnown && receiverKnown:
		from, fromOK := c.accounts.ByIdentifier(r.PayerIIK)
		to, toOK := c.accounts.ByIdentifier(r.ReceiverIIK)
		switch {
		case fromOK && !toOK:
			to = from
		case toOK && !fromOK:
			from = to
		case !fromOK && !toOK:
			return Classification{}, SkipUnresolvedAccount
		}
		return Classification{
			Type:       model.TypeTransfer,
			Account:    from,
			ToAccount:  to,
			AccountIIK: r.PayerIIK,
			SameLeg:    from.ID == to.ID,
		}, ""

	case payerKnown:
		acct, ok := c.accounts.ByIdentifier(r.PayerIIK)
		if !ok {
			return Classification{}, SkipUnresolvedAccount
		}
		cl = Classification{Type: model.TypeExpense, Account: acct, Counterparty: r.ReceiverName, AccountIIK: r.PayerIIK}

	case receiverKnown:
		acct, ok := c.accounts.ByIdentifier(r.ReceiverIIK)
		if !ok {
			return Classification{}, SkipUnresolvedAccount
		}
		cl = Classification{Type: model.TypeIncome, Account: acct, Counterparty: r.PayerName, AccountIIK: r.ReceiverIIK}

	default:
		if c.fallback == nil {
			return Classification{}, SkipUnresolvedAccount
		}
		cl = Classification{Account: *c.fallback, AccountIIK: c.fallback.AccountNumber}
		if c.owners.Match(r.PayerName) {
			cl.Type = model.TypeExpense
			cl.Counterparty = r.ReceiverName
		} else {
			cl.Type = model.TypeIncome
			cl.Counterparty = r.PayerName
		}
	}
	return c.exclude(cl, r)
}

// exclude drops income and expense rows that are really self-transfers:
// the counterparty is the owner, or the counterparty or purpose carries a
// self-transfer keyword.
func (c *Classifier) exclude(cl Classification, r Row) (Classification, SkipReason) {
	if cl.Type == model.TypeTransfer {
		return cl, ""
	}
	if c.owners.Match(cl.Counterparty) || c.internal.Match(cl.Counterparty) || c.internal.Match(r.Purpose) {
		return Classification{}, SkipInternalTransfer
	}
	return cl, ""
}
