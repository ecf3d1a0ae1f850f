// internal/domain/product/quotekey.go
package product

// quoteKeySeparator joins the base product identifier with the serialized
// canonical attributes.
const quoteKeySeparator = "|"

// QuoteKey derives the deterministic cache/match key for one product
// configuration: base identifier plus normalized attributes. Quantity,
// currency and timestamps never participate, so the same configuration
// always produces the same key regardless of how many units are ordered or
// in which currency the caller wants the result.
func QuoteKey(baseID string, attrs Attributes) string {
	return QuoteKeyFromCanonical(baseID, NormalizeAttributes(attrs))
}

// QuoteKeyFromCanonical builds a quote key from attributes that are already
// normalized, avoiding a second normalization pass when the caller needs
// both the canonical form and the key.
func QuoteKeyFromCanonical(baseID string, canonical CanonicalAttributes) string {
	return baseID + quoteKeySeparator + canonical.String()
}
