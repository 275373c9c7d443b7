package tabular

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXDecoder reads the first sheet of an Excel workbook.
type XLSXDecoder struct{}

// Extensions returns the file extensions handled by the decoder.
func (XLSXDecoder) Extensions() []string { return []string{".xlsx"} }

// Decode opens the workbook and converts its first sheet to a Table.
func (XLSXDecoder) Decode(data []byte) (Content, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Content{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Content{Table: &Table{}}, nil
	}

	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return Content{}, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return Content{Table: fromGrid(grid)}, nil
}
