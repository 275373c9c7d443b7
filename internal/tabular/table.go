// Package tabular decodes statement files into header+rows tables or raw
// text for the importer. It knows nothing about bank dialects.
package tabular

import "strings"

// Table is a decoded spreadsheet: one header row and the data rows below it.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Record is one data row with its normalized headers, in column order.
type Record struct {
	headers []string
	values  []string
}

// NewRecord pairs headers with values. Missing trailing values are empty.
func NewRecord(headers, values []string) Record {
	r := Record{headers: make([]string, len(headers)), values: make([]string, len(headers))}
	for i, h := range headers {
		r.headers[i] = NormalizeHeader(h)
		if i < len(values) {
			r.values[i] = strings.TrimSpace(values[i])
		}
	}
	return r
}

// Get returns the first non-empty value among columns whose header equals
// one of names, tried in order. Names are normalized before comparison.
func (r Record) Get(names ...string) string {
	for _, n := range names {
		key := NormalizeHeader(n)
		if key == "" {
			continue
		}
		for i, h := range r.headers {
			if h == key && r.values[i] != "" {
				return r.values[i]
			}
		}
	}
	return ""
}

// Find is like Get but matches headers containing any of parts. Parts are
// tried in order; within a part the leftmost column wins.
func (r Record) Find(parts ...string) string {
	for _, p := range parts {
		key := NormalizeHeader(p)
		for i, h := range r.headers {
			if h != "" && strings.Contains(h, key) && r.values[i] != "" {
				return r.values[i]
			}
		}
	}
	return ""
}

// Has reports whether a column whose header contains part exists, even if empty.
func (r Record) Has(part string) bool {
	key := NormalizeHeader(part)
	for _, h := range r.headers {
		if h != "" && strings.Contains(h, key) {
			return true
		}
	}
	return false
}

// NormalizeHeader lower-cases h and collapses runs of whitespace.
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// Records returns the data rows paired with the header.
func (t *Table) Records() []Record {
	out := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, NewRecord(t.Headers, row))
	}
	return out
}

// fromGrid picks the header row out of a raw cell grid. Bank exports put a
// preamble (bank name, client, period) above the header, so the header is the
// first row with as many filled cells as the widest row. Empty rows are dropped.
func fromGrid(grid [][]string) *Table {
	maxCount := 0
	for _, row := range grid {
		if n := nonEmpty(row); n > maxCount {
			maxCount = n
		}
	}
	if maxCount == 0 {
		return &Table{}
	}

	start := 0
	for i, row := range grid {
		if nonEmpty(row) == maxCount {
			start = i
			break
		}
	}
	t := &Table{Headers: trimAll(grid[start])}
	for _, row := range grid[start+1:] {
		if nonEmpty(row) == 0 {
			continue
		}
		t.Rows = append(t.Rows, trimAll(row))
	}
	return t
}

func nonEmpty(row []string) int {
	n := 0
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
