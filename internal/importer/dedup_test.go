package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kz-accountant/accountant/internal/model"
)

func TestDedupGuard(t *testing.T) {
	day := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	g := NewDedupGuard(map[string]bool{"100": true})

	assert.True(t, g.IsDuplicate("100", day, "A", model.TypeIncome), "persisted document number")
	assert.False(t, g.IsDuplicate("101", day, "A", model.TypeIncome))
	assert.True(t, g.IsDuplicate(" 101 ", day.AddDate(0, 0, 1), "B", model.TypeExpense), "same batch, document number only")

	assert.False(t, g.IsDuplicate("", day, "ТОО Клиент", model.TypeIncome))
	assert.True(t, g.IsDuplicate("", day, "тоо клиент", model.TypeIncome), "fallback key")
	assert.False(t, g.IsDuplicate("", day, "ТОО Клиент", model.TypeExpense), "type is part of the key")
	assert.False(t, g.IsDuplicate("", day.AddDate(0, 0, 1), "ТОО Клиент", model.TypeIncome), "date is part of the key")

	assert.Equal(t, 3, g.Count())
}

func TestDedupGuard_FallbackKeyIgnoresHistory(t *testing.T) {
	g := NewDedupGuard(map[string]bool{"": true})
	assert.False(t, g.IsDuplicate("", time.Now(), "x", model.TypeIncome))
}
