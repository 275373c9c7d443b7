package importer

import (
	"strings"
	"time"

	"github.com/kz-accountant/accountant/internal/model"
)

// DedupGuard remembers the rows of one import. Persisted history is
// consulted by document number only.
type DedupGuard struct {
	persisted map[string]bool
	seen      map[string]bool
	count     int
}

// NewDedupGuard creates a guard over the document numbers already in the
// journal. persisted may be nil.
func NewDedupGuard(persisted map[string]bool) *DedupGuard {
	return &DedupGuard{persisted: persisted, seen: make(map[string]bool)}
}

// IsDuplicate reports whether the row was seen before and records it
// otherwise. The key is the document number when present, else the
// date, counterparty and type.
func (g *DedupGuard) IsDuplicate(documentNumber string, date time.Time, counterpartyName string, typ model.TransactionType) bool {
	doc := strings.TrimSpace(documentNumber)
	var key string
	if doc != "" {
		key = "doc:" + doc
	} else {
		key = "row:" + date.Format(dateLayout) + "|" + strings.ToLower(strings.TrimSpace(counterpartyName)) + "|" + string(typ)
	}

	if g.seen[key] || (doc != "" && g.persisted[doc]) {
		g.count++
		return true
	}
	g.seen[key] = true
	return false
}

// Count returns how many duplicates were reported.
func (g *DedupGuard) Count() int {
	return g.count
}
