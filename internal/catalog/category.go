// Package catalog provides the tiered price tables that back every cost
// category, loaded from tabular CSV sources and memoized for the lifetime
// of the process.
package catalog

// Category identifies one cost category with its own price table.
type Category int

const (
	BlankCap Category = iota
	Fabric
	Logo
	Closure
	Accessory
	Delivery
)

func (c Category) String() string {
	switch c {
	case BlankCap:
		return "blank-cap"
	case Fabric:
		return "fabric"
	case Logo:
		return "logo"
	case Closure:
		return "closure"
	case Accessory:
		return "accessory"
	case Delivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// ProductTier selects which blank-cap base price table applies to a cap
// design. Distinct from the quantity Tier breakpoints.
type ProductTier int

const (
	Tier1 ProductTier = iota + 1
	Tier2
	Tier3
)

func (t ProductTier) String() string {
	switch t {
	case Tier1:
		return "Tier 1"
	case Tier2:
		return "Tier 2"
	case Tier3:
		return "Tier 3"
	default:
		return "unknown"
	}
}
