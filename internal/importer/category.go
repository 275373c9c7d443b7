package importer

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/kz-accountant/accountant/internal/model"
)

// Category names the importer falls back to.
const (
	TransferCategory = "Перевод между счетами"
	IncomeCategory   = "Поступления"
	ExpenseCategory  = "Списания"
	OtherCategory    = "Прочее"
)

// Colors assigned to created categories.
const (
	colorIncome   = "#10B981"
	colorExpense  = "#EF4444"
	colorTransfer = "#3B82F6"
)

// KeywordRule maps lower-case purpose fragments to a category name.
type KeywordRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// CounterpartyRule renames counterparties whose statement name matches a
// glob pattern, e.g. "тоо казахтелеком*" to "Казахтелеком".
type CounterpartyRule struct {
	Match string `yaml:"match"`
	Name  string `yaml:"name"`
}

// KeywordTable is an ordered list of rules. The first rule with a matching
// keyword wins.
type KeywordTable struct {
	Rules          []KeywordRule      `yaml:"rules"`
	Counterparties []CounterpartyRule `yaml:"counterparties,omitempty"`
}

// DefaultKeywords is used when the books carry no keyword file.
func DefaultKeywords() KeywordTable {
	return KeywordTable{Rules: []KeywordRule{
		{Category: "Гарантийные взносы", Keywords: []string{"гарантийный взнос", "гарантийн", "обеспечение заявки"}},
		{Category: "Зарплата", Keywords: []string{"заработн", "зарплат", "жалақы"}},
		{Category: "Налоги", Keywords: []string{"налог", "ипн", "кпн", "ндс", "салық", "кгд"}},
		{Category: "Социальные отчисления", Keywords: []string{"опв", "осмс", "вомс", "социальн", "пенсионн"}},
		{Category: "Аренда", Keywords: []string{"аренд", "жалға"}},
		{Category: "Банковские комиссии", Keywords: []string{"комисси", "обслуживание счета", "тариф"}},
		{Category: "Коммунальные услуги", Keywords: []string{"коммунальн", "электроэнерг", "водоснабж", "теплоснабж"}},
		{Category: "Связь и интернет", Keywords: []string{"интернет", "связ", "телефон", "kcell", "beeline", "казахтелеком"}},
		{Category: "Выручка", Keywords: []string{"оплата по счету", "оплата по договору", "реализац", "kaspi qr", "продаж"}},
		{Category: "Транспорт", Keywords: []string{"гсм", "топливо", "бензин", "такси", "транспорт"}},
		{Category: "Товары и материалы", Keywords: []string{"товар", "материал", "поставк"}},
		{Category: "Услуги", Keywords: []string{"услуг", "работ", "қызмет"}},
	}}
}

// LoadKeywords reads a YAML keyword table. A missing file yields
// DefaultKeywords. Keywords are lower-cased on load.
func LoadKeywords(path string) (KeywordTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultKeywords(), nil
		}
		return KeywordTable{}, fmt.Errorf("reading keywords: %w", err)
	}
	var kt KeywordTable
	if err := yaml.Unmarshal(data, &kt); err != nil {
		return KeywordTable{}, fmt.Errorf("parsing keywords: %w", err)
	}
	for i, rule := range kt.Rules {
		if strings.TrimSpace(rule.Category) == "" {
			return KeywordTable{}, fmt.Errorf("keywords rule %d: empty category", i+1)
		}
		for j, k := range rule.Keywords {
			kt.Rules[i].Keywords[j] = strings.ToLower(k)
		}
	}
	for i, rule := range kt.Counterparties {
		if strings.TrimSpace(rule.Match) == "" || strings.TrimSpace(rule.Name) == "" {
			return KeywordTable{}, fmt.Errorf("counterparty rule %d: match and name are required", i+1)
		}
	}
	return kt, nil
}

// SaveKeywords writes kt as YAML.
func SaveKeywords(path string, kt KeywordTable) error {
	data, err := yaml.Marshal(kt)
	if err != nil {
		return fmt.Errorf("marshaling keywords: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing keywords: %w", err)
	}
	return nil
}

// Infer returns the category of the first rule with a keyword contained in
// the lower-cased text, or fallback.
func (kt KeywordTable) Infer(text, fallback string) string {
	lower := strings.ToLower(text)
	for _, rule := range kt.Rules {
		for _, k := range rule.Keywords {
			if k != "" && strings.Contains(lower, k) {
				return rule.Category
			}
		}
	}
	return fallback
}

// Counterparty returns the name of the first counterparty rule whose pattern
// matches name, ignoring case. Unmatched names are returned unchanged.
func (kt KeywordTable) Counterparty(name string) string {
	if name == "" {
		return name
	}
	lower := strings.ToLower(name)
	for _, rule := range kt.Counterparties {
		if glob.Glob(strings.ToLower(rule.Match), lower) {
			return rule.Name
		}
	}
	return name
}

// Catalog resolves category and counterparty names against a directory
// snapshot plus the entries created during one import. The snapshot is
// never modified; created entries are reported by Created.
type Catalog struct {
	categories     []model.Category
	counterparties []model.Counterparty
	newCategories  []model.Category
	newParties     []model.Counterparty
	newID          func() string
	fold           cases.Caser
}

// NewCatalog builds a catalog over copies of the given directories. newID
// defaults to random UUIDs.
func NewCatalog(cats []model.Category, cps []model.Counterparty, newID func() string) *Catalog {
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}
	return &Catalog{
		categories:     append([]model.Category(nil), cats...),
		counterparties: append([]model.Counterparty(nil), cps...),
		newID:          newID,
		fold:           cases.Fold(),
	}
}

// ResolveCategory finds the category with the given name and type, creating
// it on first use. Names compare case-insensitively.
func (c *Catalog) ResolveCategory(name string, typ model.TransactionType) model.Category {
	name = strings.TrimSpace(name)
	key := c.fold.String(name)
	for _, cat := range c.categories {
		if cat.Type == typ && c.fold.String(cat.Name) == key {
			return cat
		}
	}
	cat := model.Category{ID: c.newID(), Name: name, Type: typ, Color: categoryColor(typ)}
	c.categories = append(c.categories, cat)
	c.newCategories = append(c.newCategories, cat)
	return cat
}

// ResolveCounterparty finds the counterparty with the given name, creating
// it on first use. An empty name resolves to the zero Counterparty.
func (c *Catalog) ResolveCounterparty(name string) model.Counterparty {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Counterparty{}
	}
	key := c.fold.String(name)
	for _, cp := range c.counterparties {
		if c.fold.String(cp.Name) == key {
			return cp
		}
	}
	cp := model.Counterparty{ID: c.newID(), Name: name, Type: model.CounterpartyOrganization}
	c.counterparties = append(c.counterparties, cp)
	c.newParties = append(c.newParties, cp)
	return cp
}

// Created returns the entries added since the catalog was built, in
// creation order.
func (c *Catalog) Created() ([]model.Category, []model.Counterparty) {
	return c.newCategories, c.newParties
}

func categoryColor(typ model.TransactionType) string {
	switch typ {
	case model.TypeIncome:
		return colorIncome
	case model.TypeTransfer:
		return colorTransfer
	}
	return colorExpense
}
