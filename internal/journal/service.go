// Package journal persists imported transactions in monthly CSV files.
package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kz-accountant/accountant/internal/id"
	"github.com/kz-accountant/accountant/internal/model"
)

const (
	journalDir  = "journal"
	journalFile = "transactions.csv"
)

// Service provides storage for the persisted transaction directory.
type Service struct {
	root     string
	accounts AccountChecker
}

// NewService creates a journal Service rooted at the books directory.
func NewService(root string, accounts AccountChecker) *Service {
	return &Service{root: root, accounts: accounts}
}

type monthKey struct {
	year, month int
}

// AppendBatch assigns entry IDs to txns, validates every touched month with
// the new rows included, and appends them. Nothing is written unless all
// months validate. The returned slice mirrors txns with IDs filled in.
func (s *Service) AppendBatch(txns []model.Transaction) ([]model.Transaction, error) {
	if len(txns) == 0 {
		return nil, nil
	}

	out := make([]model.Transaction, len(txns))
	copy(out, txns)

	var order []monthKey
	groups := make(map[monthKey][]int)
	for i, txn := range out {
		k := monthKey{txn.Date.Year(), int(txn.Date.Month())}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	var msgs []string
	pending := make(map[monthKey][]model.Transaction, len(order))
	for _, k := range order {
		existing, err := s.ReadMonth(k.year, k.month)
		if err != nil {
			return nil, err
		}

		ids := make([]string, len(existing))
		for i, e := range existing {
			ids[i] = e.ID
		}
		seq := id.MaxSeq(ids, k.year, k.month)

		var newTxns []model.Transaction
		for _, idx := range groups[k] {
			seq++
			out[idx].ID = id.FormatEntryID(k.year, k.month, seq)
			newTxns = append(newTxns, out[idx])
		}

		all := append(existing, newTxns...)
		for _, ve := range ValidateTransactions(all, s.accounts, k.year, k.month) {
			msgs = append(msgs, ve.Error())
		}
		pending[k] = newTxns
	}
	if len(msgs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	for _, k := range order {
		if err := s.appendMonth(k.year, k.month, pending[k]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Service) appendMonth(year, month int, txns []model.Transaction) error {
	path := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendTransactions(f, txns); err != nil {
		return fmt.Errorf("appending transactions: %w", err)
	}
	return nil
}

// ReadMonth reads all transactions for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.Transaction, error) {
	return readFile(s.monthPath(year, month))
}

// ReadAll reads every month in chronological order.
func (s *Service) ReadAll() ([]model.Transaction, error) {
	base := filepath.Join(s.root, journalDir)
	var all []model.Transaction
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == base {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || d.Name() != journalFile {
			return nil
		}
		txns, err := readFile(path)
		if err != nil {
			return err
		}
		all = append(all, txns...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking journal: %w", err)
	}
	return all, nil
}

// DocumentNumbers returns the set of bank document numbers already persisted.
func (s *Service) DocumentNumbers() (map[string]bool, error) {
	all, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, t := range all {
		if t.DocumentNumber != "" {
			seen[t.DocumentNumber] = true
		}
	}
	return seen, nil
}

func readFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return txns, nil
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.root, journalDir, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), journalFile)
}
