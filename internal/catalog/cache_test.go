package catalog

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestCache_MemoizesUntilInvalidate(t *testing.T) {
	c := NewCache("testdata", zerolog.Nop())

	first := c.Table(Delivery)
	if first.Empty() {
		t.Fatal("delivery table loaded empty")
	}
	if c.Table(Delivery) != first {
		t.Error("second access reloaded the table instead of serving the memoized one")
	}

	c.Invalidate()
	if c.Table(Delivery) == first {
		t.Error("access after Invalidate served the stale table")
	}
}

func TestCache_MissingFileServesEmptyTable(t *testing.T) {
	c := NewCache("testdata", zerolog.Nop())

	table := c.Table(Closure)
	if table == nil {
		t.Fatal("missing source file must still yield a table")
	}
	if !table.Empty() {
		t.Errorf("got %d rows, want an empty table", len(table.Rows))
	}
	if _, ok := table.Lookup("Snapback"); ok {
		t.Error("lookup against an empty table must miss")
	}
}

func TestCache_Products(t *testing.T) {
	c := NewCache("testdata", zerolog.Nop())

	if got := len(c.Products()); got != 2 {
		t.Fatalf("got %d products, want 2", got)
	}

	// A data directory without products.csv degrades to no catalog.
	empty := NewCache(t.TempDir(), zerolog.Nop())
	if got := empty.Products(); got != nil {
		t.Errorf("got %v, want nil for a missing product catalog", got)
	}
}
