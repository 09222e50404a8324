package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Row is one catalog entry in a category price table. Rows are immutable
// once loaded; lookups are case-insensitive on Name.
type Row struct {
	Name          string
	Prices        [numTiers]decimal.Decimal
	MarginPercent decimal.Decimal

	// Logo columns
	Application string
	Size        string
	SizeExample string
	MoldCharge  string

	// Fabric columns
	CostType  string
	ColorNote string

	// Closure / Delivery columns
	Type         string
	Comment      string
	DeliveryDays string
}

// PriceAt returns the unit price at the given quantity tier.
func (r *Row) PriceAt(t Tier) decimal.Decimal {
	return r.Prices[t]
}

// IsFree reports whether the fabric row is marked as a no-cost option.
func (r *Row) IsFree() bool {
	return strings.EqualFold(strings.TrimSpace(r.CostType), "Free")
}

// Table holds every row of one category's price table.
type Table struct {
	Category Category
	Rows     []Row

	index map[string]*Row
}

func newTable(cat Category, rows []Row) *Table {
	t := &Table{Category: cat, Rows: rows, index: make(map[string]*Row, len(rows))}
	for i := range t.Rows {
		t.index[strings.ToLower(strings.TrimSpace(t.Rows[i].Name))] = &t.Rows[i]
	}
	return t
}

// Lookup finds a row by exact, case-insensitive name match.
func (t *Table) Lookup(name string) (*Row, bool) {
	row, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	return row, ok
}

// LookupSubstring finds the first row whose name contains the given value
// or whose value contains the row name, case-insensitively. Used for
// delivery methods where the request phrasing rarely matches exactly.
func (t *Table) LookupSubstring(name string) (*Row, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, false
	}
	for i := range t.Rows {
		rowName := strings.ToLower(t.Rows[i].Name)
		if strings.Contains(rowName, needle) || strings.Contains(needle, rowName) {
			return &t.Rows[i], true
		}
	}
	return nil, false
}

// Empty reports whether the table has no rows, which is how a missing or
// unreadable source file surfaces to resolvers.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Product is one entry of the product catalog used for tier inference.
type Product struct {
	Name          string
	Profile       string
	BillShape     string
	PanelCount    string
	StructureType string
	PriceTier     ProductTier
	Nicknames     []string
}
