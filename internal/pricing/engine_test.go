package pricing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"capforge/internal/catalog"
)

func heritageOrder() OrderRequest {
	return OrderRequest{
		Quantity:           288,
		ProductDescription: "6-Panel Heritage 6C with curved bill",
		Fabrics:            []string{"Polyester", "Laser Cut"},
		Logos: []LogoSelection{
			{Name: "3D Embroidery", Size: "Large", Application: "Direct"},
		},
		DeliveryMethod: "Regular Delivery",
	}
}

func TestPriceOrder_HeritageScenario(t *testing.T) {
	e := newTestEngine(t)

	b, err := e.PriceOrder(context.Background(), heritageOrder())
	if err != nil {
		t.Fatalf("PriceOrder: %v", err)
	}

	if b.ID == uuid.Nil {
		t.Error("breakdown has no audit ID")
	}
	if b.ProductTier != catalog.Tier1 {
		t.Errorf("product tier = %s, want Tier 1", b.ProductTier)
	}
	if len(b.LineItems) != 5 {
		t.Fatalf("got %d line items, want 5", len(b.LineItems))
	}

	// 288 caps price at the 144 column: blank 3.20, Laser Cut 0.80,
	// 3D Embroidery Large 0.30, Regular Delivery 2.60, plus the $80
	// one-time medium mold. Polyester is free.
	requireDecimal(t, "blank caps subtotal", b.Subtotals.BlankCaps, "921.60")
	requireDecimal(t, "fabric subtotal", b.Subtotals.Fabric, "230.40")
	requireDecimal(t, "customization subtotal", b.Subtotals.Customization, "86.40")
	requireDecimal(t, "delivery subtotal", b.Subtotals.Delivery, "748.80")

	if len(b.MoldCharges) != 1 {
		t.Fatalf("got %d mold charges, want 1", len(b.MoldCharges))
	}
	requireDecimal(t, "mold charge", b.MoldCharges[0].Amount, "80")
	requireDecimal(t, "grand total", b.GrandTotal, "2067.20")

	poly := b.LineItems[1]
	if poly.Name != "Polyester" || !poly.IsFree || !poly.TotalPrice.IsZero() {
		t.Errorf("free fabric line = %+v", poly)
	}
}

// The grand total is exactly the sum of every line total plus every mold
// charge; nothing is priced outside the breakdown.
func TestPriceOrder_TotalIsSumOfParts(t *testing.T) {
	e := newTestEngine(t)

	req := heritageOrder()
	req.Accessories = []string{"Hang Tag", "Sticker"}
	req.Closure = "Fitted"

	b, err := e.PriceOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("PriceOrder: %v", err)
	}

	sum := decimal.Zero
	for _, item := range b.LineItems {
		sum = sum.Add(item.TotalPrice)
		if !item.TotalPrice.Equal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))) {
			t.Errorf("%s: total %s != unit %s x %d", item.Name, item.TotalPrice, item.UnitPrice, item.Quantity)
		}
	}
	for _, mold := range b.MoldCharges {
		sum = sum.Add(mold.Amount)
	}
	if !b.GrandTotal.Equal(sum) {
		t.Errorf("grand total %s != component sum %s", b.GrandTotal, sum)
	}
}

func TestPriceOrder_LookupFailureAbortsWholeOrder(t *testing.T) {
	e := newTestEngine(t)

	req := heritageOrder()
	req.Closure = "Magnetic"

	b, err := e.PriceOrder(context.Background(), req)
	if b != nil {
		t.Fatal("a partial breakdown must never be returned")
	}
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("got %v, want a LookupError", err)
	}
	if lookupErr.Category != catalog.Closure || lookupErr.Name != "Magnetic" {
		t.Errorf("lookup error = %+v", lookupErr)
	}
}

func TestPriceOrder_CancelledContext(t *testing.T) {
	e := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.PriceOrder(ctx, heritageOrder()); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestForAI(t *testing.T) {
	e := newTestEngine(t)

	b, err := e.PriceOrder(context.Background(), heritageOrder())
	if err != nil {
		t.Fatalf("PriceOrder: %v", err)
	}
	out := b.ForAI()

	if out.TotalLine != "Total Order: $2067.20" {
		t.Errorf("total line = %q", out.TotalLine)
	}
	if out.Quantity != 288 {
		t.Errorf("quantity = %d", out.Quantity)
	}

	var polyLine, laserLine string
	for _, line := range out.Lines {
		switch line.Name {
		case "Polyester":
			polyLine = line.FormattedLine
		case "Laser Cut":
			laserLine = line.FormattedLine
		}
	}
	if polyLine != "Polyester: Free" {
		t.Errorf("free line = %q", polyLine)
	}
	if laserLine != "Laser Cut: $0.80/cap × 288 = $230.40" {
		t.Errorf("fabric line = %q", laserLine)
	}

	if len(out.Molds) != 1 || !strings.Contains(out.Molds[0].FormattedLine, "(one-time)") {
		t.Errorf("mold lines = %+v", out.Molds)
	}
}
