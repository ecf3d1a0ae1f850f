// internal/domain/product/category.go
package product

import (
	"fmt"
	"strings"
)

// Category identifies a purchasable product family. Required configuration
// attributes differ per category, so validation is driven by this
// discriminator instead of per-field existence checks inside pricing logic.
type Category string

const (
	CategoryCanvas      Category = "canvas"
	CategoryFramedPrint Category = "framed-print"
	CategoryAcrylic     Category = "acrylic"
	CategoryPoster      Category = "poster"
)

// requiredAttributes lists the canonical attribute keys each category must
// carry before it can be quoted.
var requiredAttributes = map[Category][]string{
	CategoryCanvas:      {AttrSize, AttrWrap, AttrEdge},
	CategoryFramedPrint: {AttrSize, AttrFrameColor, AttrMount, AttrMountColor, AttrGlaze},
	CategoryAcrylic:     {AttrSize, AttrFinish},
	CategoryPoster:      {AttrSize, AttrPaperType},
}

// ParseCategory parses a category string, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := requiredAttributes[c]; !ok {
		return "", fmt.Errorf("unknown product category %q", s)
	}
	return c, nil
}

// Valid reports whether the category is a known product family.
func (c Category) Valid() bool {
	_, ok := requiredAttributes[c]
	return ok
}

// RequiredAttributes returns the canonical keys the category requires.
func (c Category) RequiredAttributes() []string {
	keys := requiredAttributes[c]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// ValidateConfiguration checks a raw attribute map against the category's
// required keys. It returns the missing canonical keys, empty when the
// configuration is complete.
func ValidateConfiguration(category Category, attrs Attributes) []string {
	canonical := NormalizeAttributes(attrs)

	var missing []string
	for _, key := range requiredAttributes[category] {
		if _, ok := canonical.Get(key); !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Line describes one configurable unit of an order as both the pricing and
// shipping services consume it. Both services derive normalized attributes,
// SKUs and quote keys from a Line through the same functions, which is what
// keeps their quotes consistent for the same cart.
type Line struct {
	SKU           string
	ImageID       string
	Category      Category
	Quantity      int
	Configuration Attributes
}

// ResolvedSKU returns the globally unique SKU for the line.
func (l Line) ResolvedSKU() string {
	return ResolveSKU(l.SKU, l.ImageID)
}

// QuoteKey returns the deterministic quote key for the line's resolved SKU
// and normalized configuration.
func (l Line) QuoteKey() string {
	return QuoteKey(l.ResolvedSKU(), l.Configuration)
}
