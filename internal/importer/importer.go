// Package importer turns bank statements into transactions: it detects the
// statement dialect, normalizes rows, classifies them, resolves accounts,
// categories and counterparties, drops duplicates and reconciles declared
// totals.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kz-accountant/accountant/internal/logger"
	"github.com/kz-accountant/accountant/internal/model"
	"github.com/kz-accountant/accountant/internal/tabular"
)

var (
	// ErrNoAccount means no account could be resolved for the import.
	ErrNoAccount = errors.New("no account could be resolved for the import")
	// ErrUnknownFormat is returned for unrecognized sources under UnknownFormatReject.
	ErrUnknownFormat = errors.New("unrecognized statement format")
)

// UnknownFormatPolicy decides what an unrecognized source produces.
type UnknownFormatPolicy string

const (
	UnknownFormatIgnore UnknownFormatPolicy = "ignore"
	UnknownFormatReject UnknownFormatPolicy = "reject"
)

// ParseUnknownFormatPolicy reads a policy name. Empty means ignore.
func ParseUnknownFormatPolicy(s string) (UnknownFormatPolicy, error) {
	switch p := UnknownFormatPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", UnknownFormatIgnore:
		return UnknownFormatIgnore, nil
	case UnknownFormatReject:
		return p, nil
	}
	return "", fmt.Errorf("unknown format policy %q", s)
}

// Source is one decoded statement. Table is set for spreadsheets, Text for
// line-oriented exports; decoders of delimited text may set both.
type Source struct {
	Name  string
	Table *tabular.Table
	Text  string
}

// SourceFromContent wraps decoder output.
func SourceFromContent(name string, c tabular.Content) Source {
	return Source{Name: name, Table: c.Table, Text: c.Text}
}

// Directories is the snapshot of the books an import runs against. It is
// read, never modified.
type Directories struct {
	Accounts       []model.Account
	Categories     []model.Category
	Counterparties []model.Counterparty
	// ExistingDocumentNumbers are the document numbers already in the journal.
	ExistingDocumentNumbers map[string]bool
	// DefaultAccountID is the account the caller pre-selected, or empty.
	DefaultAccountID string
}

// Summary describes an import run.
type Summary struct {
	Dialect              Dialect
	ImportedCount        int
	DuplicateCount       int
	SkippedCount         int
	DetectedAccountNames []string
	DeclaredTotals       *DeclaredTotals
	ComputedTotals       Totals
	Warnings             []string
}

// Result is the batch produced by a successful import. NewCategories and
// NewCounterparties must be persisted together with Transactions.
type Result struct {
	Transactions      []model.Transaction
	NewCategories     []model.Category
	NewCounterparties []model.Counterparty
	Skipped           []Skip
	Summary           Summary
}

// Options configure an Importer.
type Options struct {
	// OwnerNames match the business itself as a payer or counterparty.
	OwnerNames []string
	// InternalTransferKeywords mark self-transfers to drop.
	InternalTransferKeywords []string
	// Keywords drive category inference and counterparty renaming. Empty
	// Rules fall back to DefaultKeywords.
	Keywords KeywordTable
	// Tolerance for reconciliation. Zero means DefaultTolerance.
	Tolerance     decimal.Decimal
	UnknownFormat UnknownFormatPolicy
	// NewID generates IDs for created categories and counterparties.
	NewID func() string
}

// Importer runs imports. It holds no state between calls.
type Importer struct {
	opts Options
}

// New creates an Importer.
func New(opts Options) *Importer {
	if len(opts.Keywords.Rules) == 0 {
		opts.Keywords.Rules = DefaultKeywords().Rules
	}
	if opts.Tolerance.IsZero() {
		opts.Tolerance = DefaultTolerance
	}
	if opts.UnknownFormat == "" {
		opts.UnknownFormat = UnknownFormatIgnore
	}
	return &Importer{opts: opts}
}

// Import converts src into a batch of transactions. On any error the result
// is nil; a batch is never partially produced.
func (imp *Importer) Import(ctx context.Context, src Source, dirs Directories) (*Result, error) {
	log := logger.FromContext(ctx).With().Str("source", src.Name).Logger()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dialect := Detect(src)
	log.Info().Str("dialect", string(dialect)).Msg("detected statement format")
	if dialect == DialectGeneric {
		if imp.opts.UnknownFormat == UnknownFormatReject {
			return nil, fmt.Errorf("%s: %w", src.Name, ErrUnknownFormat)
		}
		return &Result{Summary: Summary{Dialect: dialect}}, nil
	}

	rows, statementIIK := parseSource(dialect, src)

	resolver := NewAccountResolver(dirs.Accounts, dirs.DefaultAccountID)
	fallback, detected, err := preflight(resolver, dialect, rows, statementIIK, dirs.DefaultAccountID)
	if err != nil {
		return nil, err
	}

	classifier := NewClassifier(resolver, fallback, imp.opts.OwnerNames, imp.opts.InternalTransferKeywords)
	catalog := NewCatalog(dirs.Categories, dirs.Counterparties, imp.opts.NewID)
	dedup := NewDedupGuard(dirs.ExistingDocumentNumbers)

	res := &Result{Summary: Summary{Dialect: dialect, DetectedAccountNames: detected}}
	var computed Totals

	for _, pr := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r := pr.row
		if pr.skip != "" {
			res.skip(log, r.Index, pr.skip)
			continue
		}

		var cl Classification
		var reason SkipReason
		if dialect == DialectOneCExchange {
			cl, reason = classifier.ClassifyExchange(r)
		} else {
			cl, reason = classifier.ClassifyColumns(r)
		}
		if reason != "" {
			res.skip(log, r.Index, reason)
			continue
		}

		cl.Counterparty = imp.opts.Keywords.Counterparty(cl.Counterparty)

		amount := rowAmount(r)
		if dedup.IsDuplicate(r.DocumentNumber, r.Date, cl.Counterparty, cl.Type) {
			log.Debug().Int("row", r.Index).Str("document", r.DocumentNumber).Msg("duplicate row")
			computed.add(cl.Type, amount)
			continue
		}

		if cl.SameLeg {
			w := fmt.Sprintf("row %d: transfer with both legs on account %s", r.Index, cl.Account.ID)
			log.Warn().Int("row", r.Index).Str("account", cl.Account.ID).Msg("transfer with both legs on one account")
			res.Summary.Warnings = append(res.Summary.Warnings, w)
		}

		txn := model.Transaction{
			AccountID:      cl.Account.ID,
			Amount:         amount,
			Type:           cl.Type,
			Date:           r.Date,
			Comment:        comment(r.Purpose, r.DocumentNumber),
			Currency:       r.Currency,
			DocumentNumber: r.DocumentNumber,
			AccountIIK:     cl.AccountIIK,
		}
		if txn.Currency == "" {
			txn.Currency = cl.Account.Currency
		}
		if cl.Type == model.TypeTransfer {
			txn.ToAccountID = cl.ToAccount.ID
			txn.CategoryID = catalog.ResolveCategory(TransferCategory, model.TypeTransfer).ID
		} else {
			name := r.CategoryHint
			if name == "" {
				name = imp.opts.Keywords.Infer(r.Purpose, defaultCategory(dialect, cl.Type))
			}
			txn.CategoryID = catalog.ResolveCategory(name, cl.Type).ID
			txn.CounterpartyID = catalog.ResolveCounterparty(cl.Counterparty).ID
		}

		computed.add(cl.Type, amount)
		res.Transactions = append(res.Transactions, txn)
	}

	declared := ExtractDeclaredTotals(src.Text)
	if err := Reconcile(declared, computed, imp.opts.Tolerance); err != nil {
		log.Warn().Err(err).Msg("import rejected")
		return nil, err
	}

	res.NewCategories, res.NewCounterparties = catalog.Created()
	res.Summary.ImportedCount = len(res.Transactions)
	res.Summary.DuplicateCount = dedup.Count()
	res.Summary.SkippedCount = len(res.Skipped)
	res.Summary.DeclaredTotals = declared
	res.Summary.ComputedTotals = computed

	log.Info().
		Int("imported", res.Summary.ImportedCount).
		Int("duplicates", res.Summary.DuplicateCount).
		Int("skipped", res.Summary.SkippedCount).
		Msg("import complete")
	return res, nil
}

func (res *Result) skip(log zerolog.Logger, index int, reason SkipReason) {
	log.Debug().Int("row", index).Str("reason", string(reason)).Msg("skipped row")
	res.Skipped = append(res.Skipped, Skip{Index: index, Reason: reason})
}

func (t *Totals) add(typ model.TransactionType, amount decimal.Decimal) {
	switch typ {
	case model.TypeIncome:
		t.Received = t.Received.Add(amount)
	case model.TypeExpense:
		t.Spent = t.Spent.Add(amount)
	}
}

type parsedRow struct {
	row  Row
	skip SkipReason
}

// parseSource runs the dialect parser over every row or document. Indexes
// are 1-based. statementIIK is the account an exchange file was issued for.
func parseSource(dialect Dialect, src Source) (rows []parsedRow, statementIIK string) {
	if dialect == DialectOneCExchange {
		f := parseExchange(src.Text)
		for i, doc := range f.documents {
			r, skip := parseExchangeDocument(i+1, doc)
			rows = append(rows, parsedRow{row: r, skip: skip})
		}
		return rows, f.statementAccount()
	}

	parse := parseOneCRow
	switch dialect {
	case DialectForte:
		parse = parseForteRow
	case DialectKaspi:
		parse = parseKaspiRow
	}
	for i, rec := range src.Table.Records() {
		r, skip := parse(i+1, rec)
		rows = append(rows, parsedRow{row: r, skip: skip})
	}
	return rows, ""
}

// preflight picks the fallback account and lists the accounts the source
// names. It fails when nothing in the source can land on an account.
func preflight(res *AccountResolver, dialect Dialect, rows []parsedRow, statementIIK, selectedID string) (*model.Account, []string, error) {
	if res.Empty() {
		return nil, nil, fmt.Errorf("%w: account directory is empty", ErrNoAccount)
	}
	if selectedID != "" && !res.Selected() {
		return nil, nil, fmt.Errorf("%w: account %q not found", ErrNoAccount, selectedID)
	}

	var detected []string
	seen := map[string]bool{}
	hasIdentifiers := false
	note := func(iik string) {
		if strings.TrimSpace(iik) == "" {
			return
		}
		hasIdentifiers = true
		if a, ok := res.ByIdentifier(iik); ok && !seen[a.ID] {
			seen[a.ID] = true
			detected = append(detected, a.Name)
		}
	}
	note(statementIIK)
	for _, pr := range rows {
		note(pr.row.AccountIIK)
		note(pr.row.PayerIIK)
		note(pr.row.ReceiverIIK)
	}

	var fallback *model.Account
	switch {
	case res.Selected():
		a, _ := res.ByID(selectedID)
		fallback = &a
	case statementIIK != "":
		if a, ok := res.ByIdentifier(statementIIK); ok {
			fallback = &a
		}
	case dialect != DialectOneCExchange && !hasIdentifiers:
		if a, ok := res.Default(model.AccountTypeBank); ok {
			fallback = &a
		}
	}

	if fallback == nil && len(detected) == 0 {
		return nil, nil, fmt.Errorf("%w: no account number in the statement matches the directory", ErrNoAccount)
	}
	return fallback, detected, nil
}

func rowAmount(r Row) decimal.Decimal {
	switch {
	case r.Debit.IsPositive():
		return r.Debit
	case r.Credit.IsPositive():
		return r.Credit
	}
	return r.Amount
}

func defaultCategory(dialect Dialect, typ model.TransactionType) string {
	if dialect == DialectKaspi {
		return OtherCategory
	}
	if typ == model.TypeIncome {
		return IncomeCategory
	}
	return ExpenseCategory
}

// comment joins the payment purpose with the document number suffix.
func comment(purpose, doc string) string {
	purpose = strings.TrimSpace(purpose)
	doc = strings.TrimSpace(doc)
	switch {
	case doc == "":
		return purpose
	case purpose == "":
		return "№" + doc
	}
	return purpose + " (№" + doc + ")"
}
