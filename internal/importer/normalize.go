package importer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseLocaleAmount turns a bank-formatted number such as "30 000,00 ₸" or
// "-1.234,56" into a decimal. Every rune outside [0-9,.-] is dropped and
// commas become dots; when several dots remain, all but the last are
// thousands separators. ok is false for empty or unparseable input.
func ParseLocaleAmount(raw string) (amount decimal.Decimal, ok bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	if n := strings.Count(cleaned, "."); n > 1 {
		last := strings.LastIndex(cleaned, ".")
		cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
	}
	if cleaned == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// amountOrZero is ParseLocaleAmount with failures read as zero.
func amountOrZero(raw string) decimal.Decimal {
	d, _ := ParseLocaleAmount(raw)
	return d
}

const dateLayout = "2006-01-02"

var sourceDateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"02.01.06",
}

// ParseSourceDate reads a statement date and returns it at UTC midnight.
// "DD.MM.YYYY[ HH:MM:SS]" is rearranged to "YYYY-MM-DD" by position before
// parsing; other inputs are tried against a fixed list of layouts and reduced
// to their date.
func ParseSourceDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if len(s) >= 10 && s[2] == '.' && s[5] == '.' {
		s = s[6:10] + "-" + s[3:5] + "-" + s[0:2]
	}

	for _, layout := range sourceDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
