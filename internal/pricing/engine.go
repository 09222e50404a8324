// Package pricing turns an order request into a priced breakdown by
// running every category resolver against the tiered price tables.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"capforge/internal/catalog"
	"capforge/internal/classifier"
)

// Engine orchestrates the category resolvers over the shared table cache.
// Engines are safe for concurrent use; each PriceOrder call produces an
// independently owned Breakdown.
type Engine struct {
	cache      *catalog.Cache
	classifier *classifier.Classifier
	log        zerolog.Logger
	bakeMargin bool
}

// NewEngine creates a pricing engine over the given table cache.
func NewEngine(cache *catalog.Cache, log zerolog.Logger) *Engine {
	return &Engine{
		cache:      cache,
		classifier: classifier.New(log),
		log:        log,
	}
}

// WithBakedMargin makes every resolved unit price include the row's
// margin, for quotes that go straight to the customer.
func (e *Engine) WithBakedMargin() *Engine {
	e.bakeMargin = true
	return e
}

// OrderRequest is one order to price.
type OrderRequest struct {
	Quantity           int             `json:"quantity"`
	ProductDescription string          `json:"productDescription"`
	Fabrics            []string        `json:"fabrics,omitempty"`
	Logos              []LogoSelection `json:"logos,omitempty"`
	Accessories        []string        `json:"accessories,omitempty"`
	Closure            string          `json:"closure,omitempty"`
	DeliveryMethod     string          `json:"deliveryMethod,omitempty"`
}

// LineItem is one priced component of an order.
type LineItem struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Quantity    int              `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	TotalPrice  decimal.Decimal  `json:"totalPrice"`
	Category    catalog.Category `json:"-"`
	IsFree      bool             `json:"isFree"`
}

// MoldCharge is a one-time, quantity-independent tooling fee tied to a
// logo selection.
type MoldCharge struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Subtotals groups line-item totals by customer-facing section.
// Customization covers logos, accessories, and closures combined.
type Subtotals struct {
	BlankCaps     decimal.Decimal `json:"blankCaps"`
	Fabric        decimal.Decimal `json:"fabric"`
	Customization decimal.Decimal `json:"customization"`
	Delivery      decimal.Decimal `json:"delivery"`
}

// Breakdown is the immutable result of pricing one order.
type Breakdown struct {
	ID          uuid.UUID           `json:"id"`
	Quantity    int                 `json:"quantity"`
	ProductTier catalog.ProductTier `json:"-"`
	LineItems   []LineItem          `json:"lineItems"`
	MoldCharges []MoldCharge        `json:"moldCharges"`
	Subtotals   Subtotals           `json:"subtotals"`
	GrandTotal  decimal.Decimal     `json:"grandTotal"`
	PricedAt    time.Time           `json:"pricedAt"`
}

// PriceOrder runs every category resolver for the request and assembles
// the breakdown. Any category-fatal lookup failure aborts the whole
// computation: a partial total must never reach the customer.
func (e *Engine) PriceOrder(ctx context.Context, req OrderRequest) (*Breakdown, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := &Breakdown{
		ID:          uuid.New(),
		Quantity:    req.Quantity,
		LineItems:   make([]LineItem, 0, 4+len(req.Fabrics)+len(req.Logos)+len(req.Accessories)),
		MoldCharges: []MoldCharge{},
		PricedAt:    time.Now().UTC(),
	}
	qty := decimal.NewFromInt(int64(req.Quantity))

	unit, productTier, err := e.BlankCapPrice(req.ProductDescription, req.Quantity)
	if err != nil {
		return nil, fmt.Errorf("pricing order: %w", err)
	}
	b.ProductTier = productTier
	b.addLine(LineItem{
		Name:        "Blank Cap",
		Description: req.ProductDescription,
		Quantity:    req.Quantity,
		UnitPrice:   unit,
		TotalPrice:  unit.Mul(qty),
		Category:    catalog.BlankCap,
	})

	for _, fabric := range req.Fabrics {
		unit, err := e.FabricUnitPrice(fabric, req.Quantity)
		if err != nil {
			return nil, fmt.Errorf("pricing order: %w", err)
		}
		b.addLine(LineItem{
			Name:       fabric,
			Quantity:   req.Quantity,
			UnitPrice:  unit,
			TotalPrice: unit.Mul(qty),
			Category:   catalog.Fabric,
			IsFree:     unit.IsZero(),
		})
	}

	for _, sel := range req.Logos {
		unit, mold, err := e.LogoPrice(sel, req.Quantity)
		if err != nil {
			return nil, fmt.Errorf("pricing order: %w", err)
		}
		desc := sel.Description
		if desc == "" {
			desc = fmt.Sprintf("%s (%s, %s)", sel.Name, sel.Size, sel.Application)
		}
		b.addLine(LineItem{
			Name:        sel.Name,
			Description: desc,
			Quantity:    req.Quantity,
			UnitPrice:   unit,
			TotalPrice:  unit.Mul(qty),
			Category:    catalog.Logo,
		})
		if !mold.IsZero() {
			b.MoldCharges = append(b.MoldCharges, MoldCharge{Name: sel.Name, Amount: mold})
		}
	}

	for _, acc := range req.Accessories {
		unit, err := e.AccessoryPrice(acc, req.Quantity)
		if err != nil {
			return nil, fmt.Errorf("pricing order: %w", err)
		}
		b.addLine(LineItem{
			Name:       acc,
			Quantity:   req.Quantity,
			UnitPrice:  unit,
			TotalPrice: unit.Mul(qty),
			Category:   catalog.Accessory,
			IsFree:     unit.IsZero(),
		})
	}

	if req.Closure != "" {
		unit, err := e.ClosurePrice(req.Closure, req.Quantity)
		if err != nil {
			return nil, fmt.Errorf("pricing order: %w", err)
		}
		b.addLine(LineItem{
			Name:       req.Closure,
			Quantity:   req.Quantity,
			UnitPrice:  unit,
			TotalPrice: unit.Mul(qty),
			Category:   catalog.Closure,
			IsFree:     unit.IsZero(),
		})
	}

	if req.DeliveryMethod != "" {
		unit := e.DeliveryPrice(req.DeliveryMethod, req.Quantity)
		b.addLine(LineItem{
			Name:       req.DeliveryMethod,
			Quantity:   req.Quantity,
			UnitPrice:  unit,
			TotalPrice: unit.Mul(qty),
			Category:   catalog.Delivery,
			IsFree:     unit.IsZero(),
		})
	}

	for _, mold := range b.MoldCharges {
		b.GrandTotal = b.GrandTotal.Add(mold.Amount)
	}

	e.log.Info().
		Str("breakdown_id", b.ID.String()).
		Int("quantity", b.Quantity).
		Str("product_tier", productTier.String()).
		Str("grand_total", b.GrandTotal.StringFixed(2)).
		Msg("order priced")
	return b, nil
}

func (b *Breakdown) addLine(item LineItem) {
	b.LineItems = append(b.LineItems, item)
	b.GrandTotal = b.GrandTotal.Add(item.TotalPrice)

	switch item.Category {
	case catalog.BlankCap:
		b.Subtotals.BlankCaps = b.Subtotals.BlankCaps.Add(item.TotalPrice)
	case catalog.Fabric:
		b.Subtotals.Fabric = b.Subtotals.Fabric.Add(item.TotalPrice)
	case catalog.Logo, catalog.Accessory, catalog.Closure:
		b.Subtotals.Customization = b.Subtotals.Customization.Add(item.TotalPrice)
	case catalog.Delivery:
		b.Subtotals.Delivery = b.Subtotals.Delivery.Add(item.TotalPrice)
	}
}
