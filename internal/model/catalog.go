package model

// Category groups transactions of a single type. Names are unique per type,
// compared case-insensitively.
type Category struct {
	ID    string
	Name  string
	Type  TransactionType
	Color string
}

// CounterpartyType classifies the other side of a transaction.
type CounterpartyType string

const (
	CounterpartyOrganization CounterpartyType = "organization"
	CounterpartySupplier     CounterpartyType = "supplier"
	CounterpartyOther        CounterpartyType = "other"
)

// Counterparty is a payer or payee known to the books.
type Counterparty struct {
	ID   string
	Name string
	Type CounterpartyType
}
