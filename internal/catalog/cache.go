package catalog

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Default file names under the data directory, one per category table
// plus the three blank-cap tier tables and the product catalog.
const (
	fabricsFile     = "fabrics.csv"
	logosFile       = "logos.csv"
	closuresFile    = "closures.csv"
	accessoriesFile = "accessories.csv"
	deliveryFile    = "delivery.csv"
	productsFile    = "products.csv"
)

func blankCapFile(tier ProductTier) string {
	return fmt.Sprintf("blank_caps_tier%d.csv", int(tier))
}

// Cache owns every memoized price table. Tables load lazily on first
// access and stay resident until Invalidate. A missing or unreadable
// source file is logged and served as an empty table so resolvers fail
// with ordinary lookup misses instead of crashing at load time.
type Cache struct {
	dir string
	log zerolog.Logger

	mu       sync.Mutex
	tables   map[Category]*Table
	blank    map[ProductTier]*Table
	products []Product
	loadedPC bool
}

// NewCache creates a table cache over the given data directory.
func NewCache(dir string, log zerolog.Logger) *Cache {
	return &Cache{
		dir:    dir,
		log:    log,
		tables: make(map[Category]*Table),
		blank:  make(map[ProductTier]*Table),
	}
}

// Table returns the memoized price table for a non-blank-cap category.
func (c *Cache) Table(cat Category) *Table {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.tables[cat]; ok {
		return t
	}
	t := c.load(categoryFile(cat), cat)
	c.tables[cat] = t
	return t
}

// BlankCaps returns the blank-cap table for a product tier.
func (c *Cache) BlankCaps(tier ProductTier) *Table {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.blank[tier]; ok {
		return t
	}
	t := c.load(blankCapFile(tier), BlankCap)
	c.blank[tier] = t
	return t
}

// Products returns the product catalog, or nil when it could not load.
func (c *Cache) Products() []Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loadedPC {
		return c.products
	}
	products, err := LoadProducts(filepath.Join(c.dir, productsFile))
	if err != nil {
		c.log.Warn().Err(err).Msg("product catalog unavailable, tier classification will use heuristics only")
		products = nil
	}
	c.products = products
	c.loadedPC = true
	return c.products
}

// Invalidate drops every memoized table so the next access reloads from
// the backing files. Used after data updates or to recover from a stale
// cached state.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tables = make(map[Category]*Table)
	c.blank = make(map[ProductTier]*Table)
	c.products = nil
	c.loadedPC = false
	c.log.Info().Msg("price table cache invalidated")
}

func (c *Cache) load(file string, cat Category) *Table {
	path := filepath.Join(c.dir, file)
	t, err := LoadTable(path, cat)
	if err != nil {
		c.log.Warn().Err(err).Str("category", cat.String()).Msg("price table unavailable, serving empty table")
		return newTable(cat, nil)
	}
	c.log.Debug().Str("category", cat.String()).Int("rows", len(t.Rows)).Msg("price table loaded")
	return t
}

func categoryFile(cat Category) string {
	switch cat {
	case Fabric:
		return fabricsFile
	case Logo:
		return logosFile
	case Closure:
		return closuresFile
	case Accessory:
		return accessoriesFile
	case Delivery:
		return deliveryFile
	default:
		// Blank-cap tables are tier specific, see BlankCaps.
		return blankCapFile(Tier1)
	}
}
