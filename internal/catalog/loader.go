package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// notApplicable is the literal token a price cell may carry instead of a
// number. It coerces to zero.
const notApplicable = "not applicable"

var tierColumns = [numTiers]string{
	"price48", "price144", "price576", "price1152", "price2880", "price10000", "price20000",
}

// LoadTable reads one category price table from a CSV file. The first row
// is a header; columns are matched by name so category-specific extras can
// appear in any order after Name.
func LoadTable(path string, cat Category) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price table %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read price table %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("price table %s: missing header row", path)
	}

	cols := indexColumns(records[0])
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("price table %s: no Name column", path)
	}

	rows := make([]Row, 0, len(records)-1)
	for n, rec := range records[1:] {
		row, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("price table %s row %d: %w", path, n+2, err)
		}
		if row.Name == "" {
			continue
		}
		rows = append(rows, row)
	}
	return newTable(cat, rows), nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func parseRow(rec []string, cols map[string]int) (Row, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	row := Row{
		Name:         field("name"),
		Application:  field("application"),
		Size:         field("size"),
		SizeExample:  field("sizeexample"),
		MoldCharge:   field("moldcharge"),
		CostType:     field("costtype"),
		ColorNote:    field("colornote"),
		Type:         field("type"),
		Comment:      field("comment"),
		DeliveryDays: field("deliverydays"),
	}

	for t, col := range tierColumns {
		price, err := parsePrice(field(col))
		if err != nil {
			return Row{}, fmt.Errorf("column %s: %w", col, err)
		}
		row.Prices[t] = price
	}

	margin, err := parsePrice(field("margin"))
	if err != nil {
		return Row{}, fmt.Errorf("column margin: %w", err)
	}
	row.MarginPercent = margin
	return row, nil
}

// parsePrice converts one cell to a decimal. Empty cells and the literal
// "Not Applicable" token both coerce to zero.
func parsePrice(cell string) (decimal.Decimal, error) {
	cell = strings.TrimSpace(strings.TrimPrefix(cell, "$"))
	if cell == "" || strings.EqualFold(cell, notApplicable) {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(cell, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad price cell %q: %w", cell, err)
	}
	return d, nil
}

// LoadProducts reads the product catalog used for tier classification.
func LoadProducts(path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open product catalog %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read product catalog %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("product catalog %s: missing header row", path)
	}

	cols := indexColumns(records[0])
	products := make([]Product, 0, len(records)-1)
	for _, rec := range records[1:] {
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		name := field("name")
		if name == "" {
			continue
		}
		p := Product{
			Name:          name,
			Profile:       field("profile"),
			BillShape:     field("billorvisorshape"),
			PanelCount:    field("panelcount"),
			StructureType: field("structuretype"),
			PriceTier:     parseProductTier(field("pricetier")),
		}
		if nick := field("nicknames"); nick != "" {
			for _, n := range strings.Split(nick, ";") {
				if n = strings.TrimSpace(n); n != "" {
					p.Nicknames = append(p.Nicknames, n)
				}
			}
		}
		products = append(products, p)
	}
	return products, nil
}

func parseProductTier(cell string) ProductTier {
	switch {
	case strings.Contains(cell, "3"):
		return Tier3
	case strings.Contains(cell, "2"):
		return Tier2
	default:
		return Tier1
	}
}
