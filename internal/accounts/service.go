package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kz-accountant/accountant/internal/model"
)

// Service provides in-memory lookup over the account directory.
type Service struct {
	accounts []model.Account
	byID     map[string]int
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byID := make(map[string]int, len(accounts))
	for i, a := range accounts {
		byID[a.ID] = i
	}
	return &Service{accounts: accounts, byID: byID}
}

// Load reads accounts/accounts.csv from a books root and returns a Service.
func Load(root string) (*Service, error) {
	path := filepath.Join(root, "accounts", "accounts.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns a copy of all accounts in directory order.
func (s *Service) All() []model.Account {
	out := make([]model.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Get returns an account by ID.
func (s *Service) Get(id string) (model.Account, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Apply adds the balance effect of committed transactions to every account
// they touch. Unknown account IDs are an error and leave balances unchanged.
func (s *Service) Apply(txns []model.Transaction) error {
	for _, t := range txns {
		if !s.Exists(t.AccountID) {
			return fmt.Errorf("applying %s: unknown account %q", t.ID, t.AccountID)
		}
		if t.Type == model.TypeTransfer && !s.Exists(t.ToAccountID) {
			return fmt.Errorf("applying %s: unknown account %q", t.ID, t.ToAccountID)
		}
	}

	for _, t := range txns {
		src := s.byID[t.AccountID]
		s.accounts[src].Balance = s.accounts[src].Balance.Add(t.SignedAmount(t.AccountID))
		if t.Type == model.TypeTransfer && t.ToAccountID != t.AccountID {
			dst := s.byID[t.ToAccountID]
			s.accounts[dst].Balance = s.accounts[dst].Balance.Add(t.SignedAmount(t.ToAccountID))
		}
	}
	return nil
}

// Save writes the account directory to accounts/accounts.csv.
func (s *Service) Save(root string) error {
	dir := filepath.Join(root, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	path := filepath.Join(dir, "accounts.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}
