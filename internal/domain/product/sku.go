// internal/domain/product/sku.go
package product

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// skuSuffixLength is the length of the unique hex suffix appended to a base
// SKU.
const skuSuffixLength = 8

// uniqueSuffixPattern matches a SKU that already carries a unique suffix:
// a trailing dash followed by exactly skuSuffixLength hex characters.
var uniqueSuffixPattern = regexp.MustCompile(`-[0-9a-f]{8}$`)

// ResolveSKU derives a globally unique SKU for one (base frame
// specification, source image) pair. The derivation is idempotent: a SKU
// that already carries the unique suffix is returned unchanged, so the
// function is safe to re-apply to already-resolved data. When an image id
// is available the suffix is derived from its leading hex characters, so
// the same image always yields the same SKU. With no image id there is no
// content identity to derive from and the suffix comes from the current
// time instead; that one fallback is deliberately non-idempotent.
func ResolveSKU(baseSKU, imageID string) string {
	baseSKU = strings.TrimSpace(baseSKU)
	if uniqueSuffixPattern.MatchString(baseSKU) {
		return baseSKU
	}
	return baseSKU + "-" + skuSuffix(imageID)
}

// skuSuffix extracts a fixed-length hex suffix from an image id, falling
// back to a time-derived suffix when the id has too few usable characters.
func skuSuffix(imageID string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(imageID) {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') {
			b.WriteRune(r)
			if b.Len() == skuSuffixLength {
				return b.String()
			}
		}
	}
	return timeSuffix()
}

// timeSuffix derives a suffix from the low bits of the current time,
// salted with UUID entropy so two calls in the same nanosecond still
// diverge.
func timeSuffix() string {
	salt := strings.ReplaceAll(uuid.New().String(), "-", "")
	combined := fmt.Sprintf("%x", time.Now().UnixNano()) + salt[:4]
	return combined[len(combined)-skuSuffixLength:]
}
