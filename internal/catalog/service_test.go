package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz-accountant/accountant/internal/model"
)

func TestCategoriesRoundTrip(t *testing.T) {
	cats := []model.Category{
		{ID: "c1", Name: "Аренда", Type: model.TypeExpense, Color: "#EF4444"},
		{ID: "c2", Name: "Аренда", Type: model.TypeIncome, Color: "#10B981"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCategories(&buf, cats))

	got, err := ReadCategories(&buf)
	require.NoError(t, err)
	assert.Equal(t, cats, got)
}

func TestReadCategories_BadType(t *testing.T) {
	in := "category_id,name,type,color\nc1,Аренда,refund,#fff\n"
	_, err := ReadCategories(bytes.NewBufferString(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category type")
}

func TestCounterpartiesRoundTrip(t *testing.T) {
	cps := []model.Counterparty{{ID: "p1", Name: "ТОО \"Ромашка\", Алматы", Type: model.CounterpartyOrganization}}

	var buf bytes.Buffer
	require.NoError(t, WriteCounterparties(&buf, cps))

	got, err := ReadCounterparties(&buf)
	require.NoError(t, err)
	assert.Equal(t, cps, got)
}

func TestLoad_EmptyRoot(t *testing.T) {
	svc, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, svc.Categories())
	assert.Empty(t, svc.Counterparties())
}

func TestAddSaveLoad(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(nil, nil)
	svc.Add(
		[]model.Category{{ID: "c1", Name: "Налоги", Type: model.TypeExpense, Color: "#EF4444"}},
		[]model.Counterparty{{ID: "p1", Name: "УГД", Type: model.CounterpartyOrganization}},
	)
	require.NoError(t, svc.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, loaded.Categories(), 1)
	require.Len(t, loaded.Counterparties(), 1)
	assert.Equal(t, "Налоги", loaded.CategoryName("c1"))
	assert.Equal(t, "УГД", loaded.CounterpartyName("p1"))
	assert.Empty(t, loaded.CategoryName("missing"))
}
