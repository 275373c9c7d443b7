package tabular

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVDecoder reads delimited text exports.
type CSVDecoder struct{}

// Extensions returns the file extensions handled by the decoder.
func (CSVDecoder) Extensions() []string { return []string{".csv", ".tsv"} }

// Decode parses delimited text, sniffing the delimiter and charset.
func (CSVDecoder) Decode(data []byte) (Content, error) {
	text, err := DecodeText(data)
	if err != nil {
		return Content{}, fmt.Errorf("decoding charset: %w", err)
	}

	t, err := ReadCSV(text)
	if err != nil {
		return Content{}, err
	}
	return Content{Table: t, Text: text}, nil
}

// ReadCSV parses UTF-8 delimited text into a Table.
func ReadCSV(text string) (*Table, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = sniffDelimiter(text)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	grid, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return fromGrid(grid), nil
}

// sniffDelimiter picks the most frequent of ';', ',' and tab over the first
// few non-empty lines. Ties favour ';', the 1C and Forte default.
func sniffDelimiter(text string) rune {
	counts := map[rune]int{}
	lines := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, d := range []rune{';', ',', '\t'} {
			counts[d] += strings.Count(line, string(d))
		}
		lines++
		if lines == 20 {
			break
		}
	}

	best := ';'
	for _, d := range []rune{',', '\t'} {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}
