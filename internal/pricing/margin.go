package pricing

import "github.com/shopspring/decimal"

// maxMarginPercent caps the margin so the divisor stays positive.
var maxMarginPercent = decimal.NewFromInt(99)

var hundred = decimal.NewFromInt(100)

// ApplyMargin converts a raw cost into a customer-facing price:
//
//	price = cost / (1 - margin/100) + flat
//
// so the cost is exactly (100-margin)% of the pre-flat price. Margins are
// clamped to [0, 99] and the result never goes below zero.
func ApplyMargin(cost, marginPercent, flat decimal.Decimal) decimal.Decimal {
	if marginPercent.LessThan(decimal.Zero) {
		marginPercent = decimal.Zero
	}
	if marginPercent.GreaterThan(maxMarginPercent) {
		marginPercent = maxMarginPercent
	}

	divisor := decimal.NewFromInt(1).Sub(marginPercent.Div(hundred))
	price := cost.Div(divisor).Add(flat)
	if price.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return price
}
