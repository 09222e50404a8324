package pricing

import (
	"fmt"

	"capforge/internal/catalog"
)

// LookupError reports an item name that could not be resolved against its
// category price table. It is fatal to the enclosing order pricing: a
// silently substituted default price would misquote the customer.
type LookupError struct {
	Category catalog.Category
	Name     string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s pricing: no table entry matching %q", e.Category, e.Name)
}

func newLookupError(cat catalog.Category, name string) *LookupError {
	return &LookupError{Category: cat, Name: name}
}
