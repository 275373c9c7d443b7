package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kz-accountant/accountant/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "entry_id,date,type,account_id,to_account_id,amount,currency,category_id,counterparty_id,document_number,account_iik,comment"

const (
	numFields   = 12
	dateFormat  = "2006-01-02"
	colEntryID  = 0
	colDate     = 1
	colType     = 2
	colAcctID   = 3
	colToAcctID = 4
	colAmount   = 5
	colCurrency = 6
	colCategory = 7
	colCparty   = 8
	colDocNum   = 9
	colIIK      = 10
	colComment  = 11
)

// ReadTransactions reads all transactions from a transactions.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes transactions to a writer, header included.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendTransactions appends rows to an existing transactions.csv writer (no header).
func AppendTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colEntryID] = txn.ID
	row[colDate] = txn.Date.Format(dateFormat)
	row[colType] = string(txn.Type)
	row[colAcctID] = txn.AccountID
	row[colToAcctID] = txn.ToAccountID
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colCurrency] = txn.Currency
	row[colCategory] = txn.CategoryID
	row[colCparty] = txn.CounterpartyID
	row[colDocNum] = txn.DocumentNumber
	row[colIIK] = txn.AccountIIK
	row[colComment] = txn.Comment
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	typ := model.TransactionType(record[colType])
	if !typ.Valid() {
		return model.Transaction{}, fmt.Errorf("unknown type %q", record[colType])
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return model.Transaction{
		ID:             record[colEntryID],
		AccountID:      record[colAcctID],
		ToAccountID:    record[colToAcctID],
		Amount:         amount,
		Type:           typ,
		Date:           date,
		Comment:        record[colComment],
		CategoryID:     record[colCategory],
		CounterpartyID: record[colCparty],
		Currency:       record[colCurrency],
		DocumentNumber: record[colDocNum],
		AccountIIK:     record[colIIK],
	}, nil
}
