package pricing

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"capforge/internal/catalog"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(catalog.NewCache("testdata", zerolog.Nop()), zerolog.Nop())
}

func requireDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", name, got.String(), want)
	}
}

func TestBlankCapPrice_CatalogProductRow(t *testing.T) {
	e := newTestEngine(t)

	unit, tier, err := e.BlankCapPrice("6-Panel Heritage 6C with curved bill", 288)
	if err != nil {
		t.Fatalf("BlankCapPrice: %v", err)
	}
	if tier != catalog.Tier1 {
		t.Errorf("product tier = %s, want Tier 1", tier)
	}
	requireDecimal(t, "unit at 288", unit, "3.20")
}

func TestBlankCapPrice_UnnamedDescriptionUsesFirstRow(t *testing.T) {
	e := newTestEngine(t)

	unit, tier, err := e.BlankCapPrice("7 panel cap, flat bill", 576)
	if err != nil {
		t.Fatalf("BlankCapPrice: %v", err)
	}
	if tier != catalog.Tier3 {
		t.Errorf("product tier = %s, want Tier 3", tier)
	}
	requireDecimal(t, "tier-3 first row at 576", unit, "4.10")
}

func TestFabricUnitPrice_DualFabricIsAdditive(t *testing.T) {
	e := newTestEngine(t)

	suede, err := e.FabricUnitPrice("Suede", 144)
	if err != nil {
		t.Fatalf("Suede: %v", err)
	}
	mesh, err := e.FabricUnitPrice("Air Mesh", 144)
	if err != nil {
		t.Fatalf("Air Mesh: %v", err)
	}
	both, err := e.FabricUnitPrice("Suede/Air Mesh", 144)
	if err != nil {
		t.Fatalf("Suede/Air Mesh: %v", err)
	}
	if !both.Equal(suede.Add(mesh)) {
		t.Errorf("dual price %s != %s + %s", both, suede, mesh)
	}
	requireDecimal(t, "dual at 144", both, "1.50")
}

func TestFabricUnitPrice_DualSkipsUnknownComponent(t *testing.T) {
	e := newTestEngine(t)

	unit, err := e.FabricUnitPrice("Suede/Velvetine", 144)
	if err != nil {
		t.Fatalf("a compound with one unknown half must not fail: %v", err)
	}
	requireDecimal(t, "known half only", unit, "1.00")
}

func TestFabricUnitPrice_UnknownSingleFabricIsFatal(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.FabricUnitPrice("Velvetine", 144)
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("got %v, want a LookupError", err)
	}
	if lookupErr.Category != catalog.Fabric || lookupErr.Name != "Velvetine" {
		t.Errorf("lookup error = %+v", lookupErr)
	}
}

func TestFabricUnitPrice_FreeFabricAlwaysZero(t *testing.T) {
	e := newTestEngine(t)

	unit, err := e.FabricUnitPrice("Polyester", 288)
	if err != nil {
		t.Fatalf("Polyester: %v", err)
	}
	requireDecimal(t, "free fabric", unit, "0")

	// Chino Twill is marked Free but carries a stray table price; the
	// cost-type flag wins.
	unit, err = e.FabricUnitPrice("Chino Twill", 288)
	if err != nil {
		t.Fatalf("Chino Twill: %v", err)
	}
	requireDecimal(t, "free fabric over non-zero cell", unit, "0")
}

func TestLogoPrice_MatchesNameSizeAndApplication(t *testing.T) {
	e := newTestEngine(t)

	unit, mold, err := e.LogoPrice(LogoSelection{Name: "3D Embroidery", Size: "Large", Application: "Direct"}, 576)
	if err != nil {
		t.Fatalf("LogoPrice: %v", err)
	}
	requireDecimal(t, "unit", unit, "0.25")
	requireDecimal(t, "medium mold", mold, "80")

	// Same logo in Small carries no mold charge.
	unit, mold, err = e.LogoPrice(LogoSelection{Name: "3D Embroidery", Size: "Small", Application: "Direct"}, 576)
	if err != nil {
		t.Fatalf("LogoPrice small: %v", err)
	}
	requireDecimal(t, "small unit", unit, "0.18")
	requireDecimal(t, "no mold", mold, "0")
}

func TestLogoPrice_NameMatchesOnSubstring(t *testing.T) {
	e := newTestEngine(t)

	_, mold, err := e.LogoPrice(LogoSelection{Name: "Premium Leather Patch", Size: "Large", Application: "Run"}, 144)
	if err != nil {
		t.Fatalf("LogoPrice: %v", err)
	}
	requireDecimal(t, "large mold", mold, "120")
}

func TestLogoPrice_SizeMismatchIsFatal(t *testing.T) {
	e := newTestEngine(t)

	_, _, err := e.LogoPrice(LogoSelection{Name: "Woven Patch", Size: "Large", Application: "Satin"}, 144)
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("got %v, want a LookupError", err)
	}
	if lookupErr.Category != catalog.Logo {
		t.Errorf("category = %s, want logo", lookupErr.Category)
	}
}

func TestClosureAndAccessoryPrice(t *testing.T) {
	e := newTestEngine(t)

	unit, err := e.ClosurePrice("snapback", 48)
	if err != nil {
		t.Fatalf("ClosurePrice: %v", err)
	}
	requireDecimal(t, "default closure", unit, "0")

	unit, err = e.ClosurePrice("Fitted", 1152)
	if err != nil {
		t.Fatalf("ClosurePrice fitted: %v", err)
	}
	requireDecimal(t, "fitted at 1152", unit, "0.55")

	unit, err = e.AccessoryPrice("Hang Tag", 10000)
	if err != nil {
		t.Fatalf("AccessoryPrice: %v", err)
	}
	requireDecimal(t, "hang tag at 10000", unit, "0.18")

	if _, err := e.AccessoryPrice("Confetti Cannon", 48); err == nil {
		t.Fatal("unknown accessory must be a lookup error")
	}
}

func TestDeliveryPrice_SubstringMatchAndNeverFatal(t *testing.T) {
	e := newTestEngine(t)

	requireDecimal(t, "partial method name", e.DeliveryPrice("Regular", 288), "2.60")
	requireDecimal(t, "not-applicable tier", e.DeliveryPrice("Sea Freight", 48), "0")
	requireDecimal(t, "unknown method", e.DeliveryPrice("Teleport", 288), "0")
}

func TestBakedMargin(t *testing.T) {
	e := NewEngine(catalog.NewCache("testdata", zerolog.Nop()), zerolog.Nop()).WithBakedMargin()

	unit, err := e.ClosurePrice("Fitted", 48)
	if err != nil {
		t.Fatalf("ClosurePrice: %v", err)
	}
	// 0.80 at 50% margin doubles.
	requireDecimal(t, "fitted with baked margin", unit, "1.60")
}

func TestMoldChargeAmount(t *testing.T) {
	cases := []struct {
		descriptor string
		want       string
	}{
		{"Small Mold Charge", "50"},
		{"Medium Mold Charge", "80"},
		{"Large Mold Charge", "120"},
		{"", "0"},
		{"None", "0"},
	}
	for _, tc := range cases {
		if got := moldChargeAmount(tc.descriptor); !got.Equal(dec(tc.want)) {
			t.Errorf("moldChargeAmount(%q) = %s, want %s", tc.descriptor, got, tc.want)
		}
	}
}
