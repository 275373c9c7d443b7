package journal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz-accountant/accountant/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRoundTrip(t *testing.T) {
	txns := []model.Transaction{
		{
			ID: "2025-10-0001", Date: date(2025, 10, 1), Type: model.TypeExpense,
			AccountID: "forte", Amount: dec("30000"), Currency: "KZT",
			CategoryID: "cat-1", CounterpartyID: "cp-1", DocumentNumber: "118",
			AccountIIK: "KZ129650000012345678", Comment: "Гарантийный взнос (№118)",
		},
		{
			ID: "2025-10-0002", Date: date(2025, 10, 2), Type: model.TypeTransfer,
			AccountID: "forte", ToAccountID: "kaspi", Amount: dec("1500.5"), Currency: "KZT",
			CategoryID: "cat-t",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, txns))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, txns[0].ID, got[0].ID)
	assert.True(t, txns[0].Date.Equal(got[0].Date))
	assert.Equal(t, model.TypeExpense, got[0].Type)
	assert.True(t, got[0].Amount.Equal(dec("30000")))
	assert.Equal(t, "118", got[0].DocumentNumber)
	assert.Equal(t, "Гарантийный взнос (№118)", got[0].Comment)

	assert.Equal(t, "kaspi", got[1].ToAccountID)
	assert.Equal(t, "1500.50", got[1].Amount.StringFixed(2))
	assert.Empty(t, got[1].CounterpartyID)
}

func TestMarshalTransaction_Formatting(t *testing.T) {
	row := MarshalTransaction(model.Transaction{Date: date(2025, 1, 5), Type: model.TypeIncome, Amount: dec("7")})
	assert.Len(t, row, numFields)
	assert.Equal(t, "2025-01-05", row[colDate])
	assert.Equal(t, "7.00", row[colAmount])
	assert.Equal(t, "income", row[colType])
}

func TestSpecialCharactersInComment(t *testing.T) {
	txn := model.Transaction{
		ID: "2025-10-0001", Date: date(2025, 10, 1), Type: model.TypeIncome, AccountID: "a",
		Amount: dec("1"), Comment: "Оплата по счету \"12\", аванс\nвторая строка",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, []model.Transaction{txn}))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, txn.Comment, got[0].Comment)
}

func TestAppendTransactions(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(Header + "\n")
	require.NoError(t, AppendTransactions(&buf, []model.Transaction{
		{ID: "2025-10-0001", Date: date(2025, 10, 1), Type: model.TypeIncome, AccountID: "a", Amount: dec("1")},
	}))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestReadTransactions_Empty(t *testing.T) {
	got, err := ReadTransactions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadTransactions_HeaderOnly(t *testing.T) {
	got, err := ReadTransactions(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnmarshalTransaction_Errors(t *testing.T) {
	good := MarshalTransaction(model.Transaction{ID: "2025-10-0001", Date: date(2025, 10, 1), Type: model.TypeIncome, AccountID: "a", Amount: dec("1")})

	tests := []struct {
		name   string
		mutate func([]string) []string
		want   string
	}{
		{"short", func(r []string) []string { return r[:3] }, "expected 12 fields"},
		{"bad date", func(r []string) []string { r[colDate] = "01.10.2025"; return r }, "parsing date"},
		{"bad type", func(r []string) []string { r[colType] = "refund"; return r }, "unknown type"},
		{"bad amount", func(r []string) []string { r[colAmount] = "x"; return r }, "parsing amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := make([]string, len(good))
			copy(rec, good)
			_, err := UnmarshalTransaction(tt.mutate(rec))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
