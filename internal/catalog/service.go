// Package catalog stores the category and counterparty directories of the books.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kz-accountant/accountant/internal/model"
)

const (
	catalogDir         = "catalog"
	categoriesFile     = "categories.csv"
	counterpartiesFile = "counterparties.csv"
)

// Service holds both directories in memory.
type Service struct {
	categories     []model.Category
	counterparties []model.Counterparty
}

// NewService creates a Service from existing entries.
func NewService(cats []model.Category, cps []model.Counterparty) *Service {
	return &Service{categories: cats, counterparties: cps}
}

// Load reads catalog/*.csv from a books root. Missing files yield empty directories.
func Load(root string) (*Service, error) {
	svc := &Service{}

	f, err := os.Open(filepath.Join(root, catalogDir, categoriesFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("opening categories: %w", err)
	default:
		svc.categories, err = ReadCategories(f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}

	f, err = os.Open(filepath.Join(root, catalogDir, counterpartiesFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("opening counterparties: %w", err)
	default:
		svc.counterparties, err = ReadCounterparties(f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}

	return svc, nil
}

// Categories returns a copy of the category directory.
func (s *Service) Categories() []model.Category {
	out := make([]model.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Counterparties returns a copy of the counterparty directory.
func (s *Service) Counterparties() []model.Counterparty {
	out := make([]model.Counterparty, len(s.counterparties))
	copy(out, s.counterparties)
	return out
}

// CategoryName returns the name of the category with the given ID.
func (s *Service) CategoryName(id string) string {
	for _, c := range s.categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

// CounterpartyName returns the name of the counterparty with the given ID.
func (s *Service) CounterpartyName(id string) string {
	for _, c := range s.counterparties {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

// Add appends entries created elsewhere, typically by an import.
func (s *Service) Add(cats []model.Category, cps []model.Counterparty) {
	s.categories = append(s.categories, cats...)
	s.counterparties = append(s.counterparties, cps...)
}

// Save writes both directories under catalog/.
func (s *Service) Save(root string) error {
	dir := filepath.Join(root, catalogDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating catalog dir: %w", err)
	}

	if err := writeFile(filepath.Join(dir, categoriesFile), func(f *os.File) error {
		return WriteCategories(f, s.categories)
	}); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}

	if err := writeFile(filepath.Join(dir, counterpartiesFile), func(f *os.File) error {
		return WriteCounterparties(f, s.counterparties)
	}); err != nil {
		return fmt.Errorf("writing counterparties: %w", err)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}
