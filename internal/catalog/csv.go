package catalog

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/kz-accountant/accountant/internal/model"
)

var (
	categoryHeader     = []string{"category_id", "name", "type", "color"}
	counterpartyHeader = []string{"counterparty_id", "name", "type"}
)

// ReadCategories reads categories.csv.
func ReadCategories(r io.Reader) ([]model.Category, error) {
	records, err := readRecords(r, len(categoryHeader))
	if err != nil {
		return nil, fmt.Errorf("reading categories CSV: %w", err)
	}

	var out []model.Category
	for i, rec := range records {
		typ := model.TransactionType(rec[2])
		if !typ.Valid() {
			return nil, fmt.Errorf("row %d: unknown category type %q", i+2, rec[2])
		}
		out = append(out, model.Category{ID: rec[0], Name: rec[1], Type: typ, Color: rec[3]})
	}
	return out, nil
}

// WriteCategories writes categories.csv.
func WriteCategories(w io.Writer, cats []model.Category) error {
	rows := make([][]string, len(cats))
	for i, c := range cats {
		rows[i] = []string{c.ID, c.Name, string(c.Type), c.Color}
	}
	return writeRecords(w, categoryHeader, rows)
}

// ReadCounterparties reads counterparties.csv.
func ReadCounterparties(r io.Reader) ([]model.Counterparty, error) {
	records, err := readRecords(r, len(counterpartyHeader))
	if err != nil {
		return nil, fmt.Errorf("reading counterparties CSV: %w", err)
	}

	var out []model.Counterparty
	for _, rec := range records {
		out = append(out, model.Counterparty{ID: rec[0], Name: rec[1], Type: model.CounterpartyType(rec[2])})
	}
	return out, nil
}

// WriteCounterparties writes counterparties.csv.
func WriteCounterparties(w io.Writer, cps []model.Counterparty) error {
	rows := make([][]string, len(cps))
	for i, c := range cps {
		rows[i] = []string{c.ID, c.Name, string(c.Type)}
	}
	return writeRecords(w, counterpartyHeader, rows)
}

// readRecords returns the data rows, header excluded.
func readRecords(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

func writeRecords(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
