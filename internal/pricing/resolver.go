package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"capforge/internal/catalog"
)

// Mold charge classes. The charge is a one-time tooling fee, independent
// of order quantity.
var (
	moldChargeSmall  = decimal.NewFromInt(50)
	moldChargeMedium = decimal.NewFromInt(80)
	moldChargeLarge  = decimal.NewFromInt(120)
)

// moldChargeAmount maps a MoldCharge descriptor cell ("Small Mold Charge",
// "Large Mold Charge", ...) to its flat fee. An empty descriptor means no
// mold is required.
func moldChargeAmount(descriptor string) decimal.Decimal {
	d := strings.ToLower(descriptor)
	switch {
	case strings.Contains(d, "small"):
		return moldChargeSmall
	case strings.Contains(d, "medium"):
		return moldChargeMedium
	case strings.Contains(d, "large"):
		return moldChargeLarge
	default:
		return decimal.Zero
	}
}

// BlankCapPrice classifies the product description into a price tier and
// returns the per-cap base price at the quantity's breakpoint. When the
// description names a catalog product its row is preferred; otherwise the
// tier table's first row prices the order.
func (e *Engine) BlankCapPrice(description string, quantity int) (decimal.Decimal, catalog.ProductTier, error) {
	productTier := e.classifier.Classify(description, e.cache.Products())
	table := e.cache.BlankCaps(productTier)
	if table.Empty() {
		return decimal.Zero, productTier, newLookupError(catalog.BlankCap, description)
	}

	tier := catalog.ResolveTier(quantity)
	desc := strings.ToLower(description)
	for i := range table.Rows {
		if strings.Contains(desc, strings.ToLower(table.Rows[i].Name)) {
			return e.finish(table.Rows[i].PriceAt(tier), &table.Rows[i]), productTier, nil
		}
	}
	return e.finish(table.Rows[0].PriceAt(tier), &table.Rows[0]), productTier, nil
}

// FabricUnitPrice resolves one fabric selection. A name containing "/" is
// a dual-fabric spec priced as the sum of its components; an unmatched
// component of a compound is skipped with a warning, while an unmatched
// single fabric is a LookupError. Rows with a Free cost type always price
// at zero, even over a stray non-zero table value.
func (e *Engine) FabricUnitPrice(name string, quantity int) (decimal.Decimal, error) {
	table := e.cache.Table(catalog.Fabric)
	tier := catalog.ResolveTier(quantity)

	if strings.Contains(name, "/") {
		total := decimal.Zero
		for _, part := range strings.Split(name, "/") {
			part = strings.TrimSpace(part)
			row, ok := table.Lookup(part)
			if !ok {
				e.log.Warn().Str("fabric", part).Str("selection", name).
					Msg("dual-fabric component not in price table, skipping")
				continue
			}
			total = total.Add(e.fabricRowPrice(row, tier))
		}
		return total, nil
	}

	row, ok := table.Lookup(name)
	if !ok {
		return decimal.Zero, newLookupError(catalog.Fabric, name)
	}
	return e.fabricRowPrice(row, tier), nil
}

func (e *Engine) fabricRowPrice(row *catalog.Row, tier catalog.Tier) decimal.Decimal {
	price := row.PriceAt(tier)
	if row.IsFree() {
		if !price.IsZero() {
			e.log.Warn().Str("fabric", row.Name).Str("price", price.String()).
				Msg("free fabric carries a non-zero table price, correcting to 0")
		}
		return decimal.Zero
	}
	return e.finish(price, row)
}

// LogoSelection describes one customization the customer asked for.
type LogoSelection struct {
	Name        string `json:"name"`
	Size        string `json:"size"`
	Application string `json:"application"`
	Description string `json:"description,omitempty"`
}

// LogoPrice matches a logo row on name substring, size, and application
// simultaneously, returning the per-unit price plus the flat one-time mold
// charge the row's descriptor calls for.
func (e *Engine) LogoPrice(sel LogoSelection, quantity int) (decimal.Decimal, decimal.Decimal, error) {
	table := e.cache.Table(catalog.Logo)
	tier := catalog.ResolveTier(quantity)

	name := strings.ToLower(strings.TrimSpace(sel.Name))
	for i := range table.Rows {
		row := &table.Rows[i]
		if !strings.Contains(strings.ToLower(row.Name), name) && !strings.Contains(name, strings.ToLower(row.Name)) {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(row.Size), strings.TrimSpace(sel.Size)) {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(row.Application), strings.TrimSpace(sel.Application)) {
			continue
		}
		return e.finish(row.PriceAt(tier), row), moldChargeAmount(row.MoldCharge), nil
	}
	return decimal.Zero, decimal.Zero, newLookupError(catalog.Logo, sel.Name)
}

// ClosurePrice resolves a closure by exact name match.
func (e *Engine) ClosurePrice(name string, quantity int) (decimal.Decimal, error) {
	return e.exactPrice(catalog.Closure, name, quantity)
}

// AccessoryPrice resolves an accessory by exact name match.
func (e *Engine) AccessoryPrice(name string, quantity int) (decimal.Decimal, error) {
	return e.exactPrice(catalog.Accessory, name, quantity)
}

func (e *Engine) exactPrice(cat catalog.Category, name string, quantity int) (decimal.Decimal, error) {
	row, ok := e.cache.Table(cat).Lookup(name)
	if !ok {
		return decimal.Zero, newLookupError(cat, name)
	}
	return e.finish(row.PriceAt(catalog.ResolveTier(quantity)), row), nil
}

// DeliveryPrice resolves a delivery method by substring match. Delivery is
// never order-fatal: an unmatched method prices at zero with a warning,
// and Not Applicable cells already coerce to zero at load time.
func (e *Engine) DeliveryPrice(method string, quantity int) decimal.Decimal {
	row, ok := e.cache.Table(catalog.Delivery).LookupSubstring(method)
	if !ok {
		e.log.Warn().Str("method", method).Msg("delivery method not in price table, pricing at 0")
		return decimal.Zero
	}
	return e.finish(row.PriceAt(catalog.ResolveTier(quantity)), row)
}

// finish optionally bakes the row's margin into a resolved unit price.
// Raw costs are the default; AI-facing quotes enable baked margins so the
// model only ever sees customer prices.
func (e *Engine) finish(price decimal.Decimal, row *catalog.Row) decimal.Decimal {
	if !e.bakeMargin {
		return price
	}
	return ApplyMargin(price, row.MarginPercent, decimal.Zero)
}
