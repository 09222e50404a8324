package catalog

// Tier is a quantity breakpoint column in a price table.
type Tier int

const (
	Tier48 Tier = iota
	Tier144
	Tier576
	Tier1152
	Tier2880
	Tier10000
	Tier20000

	numTiers = 7
)

// breakpoints mirrors the price column order in every table file.
var breakpoints = [numTiers]int{48, 144, 576, 1152, 2880, 10000, 20000}

// Breakpoint returns the minimum order quantity for the tier column.
func (t Tier) Breakpoint() int {
	return breakpoints[t]
}

// Column returns the header name of the tier's price column.
func (t Tier) Column() string {
	switch t {
	case Tier48:
		return "price48"
	case Tier144:
		return "price144"
	case Tier576:
		return "price576"
	case Tier1152:
		return "price1152"
	case Tier2880:
		return "price2880"
	case Tier10000:
		return "price10000"
	case Tier20000:
		return "price20000"
	default:
		return "unknown"
	}
}

// ResolveTier maps an order quantity to the highest breakpoint column the
// quantity qualifies for. Quantities under the smallest breakpoint still
// price at the 48 column; there is no under-minimum tier.
func ResolveTier(quantity int) Tier {
	tier := Tier48
	for t := Tier48; t < numTiers; t++ {
		if quantity >= breakpoints[t] {
			tier = t
		}
	}
	return tier
}
