package quote

import (
	"github.com/rs/zerolog"
)

// Parser extracts ParsedQuote values from chat messages.
type Parser struct {
	log zerolog.Logger
}

func NewParser(log zerolog.Logger) *Parser {
	return &Parser{log: log}
}

// Parse extracts a structured quote from the message, or returns nil when
// the message does not look like a completed quote. If preserved context
// from an earlier turn is supplied, its non-empty fields override freshly
// extracted values so a conversational follow-up can never regress
// attributes the customer already established.
//
// Parse never propagates a failure: any internal panic is logged and
// reported as "no quote found".
func (p *Parser) Parse(message string, preserved *ParsedQuote) (q *ParsedQuote) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn().Interface("panic", r).Msg("quote parsing failed, treating message as no quote")
			q = nil
		}
	}()

	// The parser only activates on messages carrying both a grand total
	// and a piece count. Anything else is ordinary conversation.
	total, ok := extractTotal(message)
	if !ok {
		return nil
	}
	quantity, ok := extractQuantity(message)
	if !ok {
		return nil
	}

	q = &ParsedQuote{
		CapDetails: CapDetails{
			ProductName: extractProductName(message),
			Quantity:    quantity,
			Size:        extractSize(message),
			Colors:      extractColors(message),
			Profile:     extractProfile(message),
			BillShape:   extractBillShape(message),
			Structure:   extractStructure(message),
			Fabric:      extractFabric(message),
			Closure:     extractClosure(message),
		},
		Customization: Customization{
			Logos:       extractLogos(message),
			Accessories: extractAccessories(message),
		},
		Delivery: extractDelivery(message),
		Pricing: Pricing{
			BaseProductCost: extractBaseCost(message),
			LogosCost:       extractCustomCost(message),
			DeliveryCost:    extractDeliveryCost(message),
			Total:           total,
			Quantity:        quantity,
		},
	}

	if preserved != nil {
		applyPreserved(q, preserved)
	}

	p.log.Debug().
		Int("quantity", q.CapDetails.Quantity).
		Str("fabric", q.CapDetails.Fabric).
		Int("logos", len(q.Customization.Logos)).
		Str("total", q.Pricing.Total.StringFixed(2)).
		Msg("quote extracted from message")
	return q
}

func extractDelivery(msg string) Delivery {
	return Delivery{
		Method:   extractDeliveryMethod(msg),
		LeadTime: extractLeadTime(msg),
		Cost:     extractDeliveryCost(msg),
	}
}
