package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz-accountant/accountant/internal/model"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func TestKeywordTable_Infer(t *testing.T) {
	kt := DefaultKeywords()

	assert.Equal(t, "Гарантийные взносы", kt.Infer("Гарантийный взнос по лоту 123", ExpenseCategory))
	assert.Equal(t, "Зарплата", kt.Infer("Заработная плата за сентябрь", ExpenseCategory))
	assert.Equal(t, "Связь и интернет", kt.Infer("Услуги связи", ExpenseCategory))
	assert.Equal(t, ExpenseCategory, kt.Infer("что-то непонятное", ExpenseCategory))
	assert.Equal(t, OtherCategory, kt.Infer("", OtherCategory))
}

func TestKeywordTable_FirstRuleWins(t *testing.T) {
	kt := KeywordTable{Rules: []KeywordRule{
		{Category: "A", Keywords: []string{"оплата"}},
		{Category: "B", Keywords: []string{"оплата аренды"}},
	}}
	assert.Equal(t, "A", kt.Infer("Оплата аренды", "x"))
}

func TestLoadKeywords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	yaml := "rules:\n  - category: Аренда\n    keywords: [\"АРЕНД\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	kt, err := LoadKeywords(path)
	require.NoError(t, err)
	require.Len(t, kt.Rules, 1)
	assert.Equal(t, "аренд", kt.Rules[0].Keywords[0])
	assert.Equal(t, "Аренда", kt.Infer("Аренда офиса", "x"))
}

func TestLoadKeywords_Missing(t *testing.T) {
	kt, err := LoadKeywords(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultKeywords(), kt)
}

func TestLoadKeywords_EmptyCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - keywords: [x]\n"), 0o644))

	_, err := LoadKeywords(path)
	assert.ErrorContains(t, err, "empty category")
}

func TestLoadKeywords_CounterpartyRuleNeedsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	data := "rules:\n  - category: A\n    keywords: [a]\ncounterparties:\n  - match: \"тоо *\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := LoadKeywords(path)
	assert.ErrorContains(t, err, "counterparty rule 1")
}

func TestKeywordTable_Counterparty(t *testing.T) {
	kt := KeywordTable{Counterparties: []CounterpartyRule{
		{Match: "*казахтелеком*", Name: "Казахтелеком"},
		{Match: "ТОО *", Name: "Прочие ТОО"},
	}}

	assert.Equal(t, "Казахтелеком", kt.Counterparty("АО КАЗАХТЕЛЕКОМ"))
	assert.Equal(t, "Казахтелеком", kt.Counterparty("ТОО Казахтелеком-Сервис"))
	assert.Equal(t, "Прочие ТОО", kt.Counterparty("ТОО Клиент Плюс"))
	assert.Equal(t, "ИП Сидоров", kt.Counterparty("ИП Сидоров"))
	assert.Empty(t, kt.Counterparty(""))
}

func TestSaveKeywords_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, SaveKeywords(path, DefaultKeywords()))

	kt, err := LoadKeywords(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultKeywords(), kt)
}

func TestCatalog_ResolveCategory(t *testing.T) {
	existing := []model.Category{{ID: "c1", Name: "Аренда", Type: model.TypeExpense, Color: "#000000"}}
	c := NewCatalog(existing, nil, sequentialIDs())

	got := c.ResolveCategory("АРЕНДА", model.TypeExpense)
	assert.Equal(t, "c1", got.ID)

	income := c.ResolveCategory("аренда", model.TypeIncome)
	assert.Equal(t, "new-1", income.ID)
	assert.Equal(t, "аренда", income.Name)
	assert.Equal(t, colorIncome, income.Color)

	again := c.ResolveCategory("Аренда", model.TypeIncome)
	assert.Equal(t, "new-1", again.ID)

	transfer := c.ResolveCategory(TransferCategory, model.TypeTransfer)
	assert.Equal(t, colorTransfer, transfer.Color)

	cats, cps := c.Created()
	assert.Len(t, cats, 2)
	assert.Empty(t, cps)
	assert.Len(t, existing, 1)
}

func TestCatalog_ResolveCounterparty(t *testing.T) {
	existing := []model.Counterparty{{ID: "p1", Name: "ТОО Клиент", Type: model.CounterpartyOrganization}}
	c := NewCatalog(nil, existing, sequentialIDs())

	assert.Equal(t, "p1", c.ResolveCounterparty(" тоо клиент ").ID)

	created := c.ResolveCounterparty("ИП Петров")
	assert.Equal(t, "new-1", created.ID)
	assert.Equal(t, model.CounterpartyOrganization, created.Type)
	assert.Equal(t, "new-1", c.ResolveCounterparty("ип петров").ID)

	assert.Empty(t, c.ResolveCounterparty("  ").ID)

	_, cps := c.Created()
	assert.Len(t, cps, 1)
}

func TestCatalog_DefaultIDsAreUUIDs(t *testing.T) {
	c := NewCatalog(nil, nil, nil)
	cat := c.ResolveCategory("Прочее", model.TypeExpense)
	assert.Len(t, cat.ID, 36)
	assert.Equal(t, colorExpense, cat.Color)
}
