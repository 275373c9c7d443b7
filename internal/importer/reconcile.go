package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultTolerance is the largest accepted gap between declared and
// computed totals.
var DefaultTolerance = decimal.RequireFromString("0.01")

// Totals are the sums of income and expense amounts in a batch.
type Totals struct {
	Received decimal.Decimal
	Spent    decimal.Decimal
}

// DeclaredTotals are the checksums a source states about itself. Either
// value may be missing.
type DeclaredTotals struct {
	Received decimal.NullDecimal
	Spent    decimal.NullDecimal
}

// ReconciliationError rejects a batch whose computed totals disagree with
// the declared ones.
type ReconciliationError struct {
	Declared DeclaredTotals
	Computed Totals
}

func (e *ReconciliationError) Error() string {
	var parts []string
	if e.Declared.Received.Valid {
		parts = append(parts, fmt.Sprintf("received declared %s, computed %s",
			e.Declared.Received.Decimal.StringFixed(2), e.Computed.Received.StringFixed(2)))
	}
	if e.Declared.Spent.Valid {
		parts = append(parts, fmt.Sprintf("spent declared %s, computed %s",
			e.Declared.Spent.Decimal.StringFixed(2), e.Computed.Spent.StringFixed(2)))
	}
	return "totals mismatch: " + strings.Join(parts, "; ")
}

// Reconcile compares declared against computed totals after rounding both to
// two places. A nil declared always passes. Each declared value is checked
// only when present.
func Reconcile(declared *DeclaredTotals, computed Totals, tolerance decimal.Decimal) error {
	if declared == nil {
		return nil
	}
	if exceeds(declared.Received, computed.Received, tolerance) ||
		exceeds(declared.Spent, computed.Spent, tolerance) {
		return &ReconciliationError{Declared: *declared, Computed: computed}
	}
	return nil
}

func exceeds(declared decimal.NullDecimal, computed, tolerance decimal.Decimal) bool {
	if !declared.Valid {
		return false
	}
	diff := declared.Decimal.Round(2).Sub(computed.Round(2)).Abs()
	return diff.GreaterThan(tolerance)
}
