package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func TestDecodeText_UTF8WithBOM(t *testing.T) {
	got, err := DecodeText(append([]byte{0xEF, 0xBB, 0xBF}, []byte("Дата;Сумма")...))
	require.NoError(t, err)
	assert.Equal(t, "Дата;Сумма", got)
}

func TestDecodeText_Windows1251(t *testing.T) {
	raw, err := charmap.Windows1251.NewEncoder().String("СекцияДокумент=Платежное поручение")
	require.NoError(t, err)

	got, err := DecodeText([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "СекцияДокумент=Платежное поручение", got)
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', sniffDelimiter("a;b;c\n1;2;3\n"))
	assert.Equal(t, ',', sniffDelimiter("a,b,c\n1,2,3\n"))
	assert.Equal(t, '\t', sniffDelimiter("a\tb\tc\n"))
	assert.Equal(t, ';', sniffDelimiter("plain"))
}

func TestCSVDecoder(t *testing.T) {
	in := "Дата операции;Сумма списания;Сумма пополнения\n01.10.2025;\"1 500,00\";\n"
	c, err := CSVDecoder{}.Decode([]byte(in))
	require.NoError(t, err)
	require.NotNil(t, c.Table)
	assert.Equal(t, []string{"Дата операции", "Сумма списания", "Сумма пополнения"}, c.Table.Headers)
	require.Len(t, c.Table.Rows, 1)
	assert.Equal(t, "1 500,00", c.Table.Rows[0][1])
	assert.Equal(t, in, c.Text)
}

func TestXLSXDecoder(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Выписка"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Дата", "Дебет", "Кредит", "Контрагент"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"01.10.2025", "100", "", "ТОО Альфа"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	c, err := XLSXDecoder{}.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Дата", "Дебет", "Кредит", "Контрагент"}, c.Table.Headers)
	require.Len(t, c.Table.Rows, 1)
	assert.Equal(t, "ТОО Альфа", c.Table.Rows[0][3])
}

func TestXLSXDecoder_Garbage(t *testing.T) {
	_, err := XLSXDecoder{}.Decode([]byte("not a zip"))
	assert.ErrorContains(t, err, "opening workbook")
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("statement.CSV"))
	assert.NotNil(t, r.Get("kaspi.xlsx"))
	assert.NotNil(t, r.Get(".txt"))
	assert.Nil(t, r.Get("scan.pdf"))
	assert.True(t, r.Supports("a.tsv"))
	assert.False(t, r.Supports("a.doc"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(TextDecoder{})
	assert.Panics(t, func() { r.Register(TextDecoder{}) })
}

func TestRegistry_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1c.txt")
	require.NoError(t, os.WriteFile(path, []byte("1CClientBankExchange\n"), 0o644))

	c, err := DefaultRegistry().ReadFile(path)
	require.NoError(t, err)
	assert.Nil(t, c.Table)
	assert.Equal(t, "1CClientBankExchange\n", c.Text)

	_, err = DefaultRegistry().ReadFile(filepath.Join(dir, "scan.pdf"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}
