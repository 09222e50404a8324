package quote

// applyPreserved overrides freshly extracted fields with previously
// established context. The override is mandatory for the fields below: a
// follow-up message that only confirms part of the order in prose must
// not regress earlier attributes to extractor defaults.
func applyPreserved(q, preserved *ParsedQuote) {
	if preserved.CapDetails.Quantity > 0 {
		q.CapDetails.Quantity = preserved.CapDetails.Quantity
		q.Pricing.Quantity = preserved.CapDetails.Quantity
	}
	if len(preserved.CapDetails.Colors) > 0 {
		q.CapDetails.Colors = preserved.CapDetails.Colors
	}
	if len(preserved.Customization.Logos) > 0 {
		// Whole-logo replacement keeps each preserved logo's mold charge
		// and cost fields intact.
		q.Customization.Logos = preserved.Customization.Logos
	}
	if len(preserved.Customization.Accessories) > 0 {
		q.Customization.Accessories = preserved.Customization.Accessories
	}
	if preserved.CapDetails.Fabric != "" {
		q.CapDetails.Fabric = preserved.CapDetails.Fabric
	}
	if preserved.CapDetails.Closure != "" {
		q.CapDetails.Closure = preserved.CapDetails.Closure
	}
	if preserved.CapDetails.Size != "" {
		q.CapDetails.Size = preserved.CapDetails.Size
	}
}
