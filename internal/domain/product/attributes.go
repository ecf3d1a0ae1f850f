// internal/domain/product/attributes.go
package product

import (
	"sort"
	"strings"
)

// Attributes is a raw configuration attribute map as received from the
// storefront (size, wrap, edge, mount color, ...). Keys may arrive with
// inconsistent casing or synonymous spellings.
type Attributes map[string]string

// Canonical attribute keys
const (
	AttrSize       = "size"
	AttrFrameColor = "frameColor"
	AttrMount      = "mount"
	AttrMountColor = "mountColor"
	AttrGlaze      = "glaze"
	AttrPaperType  = "paperType"
	AttrFinish     = "finish"
	AttrWrap       = "wrap"
	AttrEdge       = "edge"
)

// keySynonyms maps case-folded key spellings to their canonical key.
// Lookups are done on the lowercased, separator-stripped form so that
// "mountColor", "mountcolor", "mount_color" and "mount-color" all land on
// the same canonical key.
var keySynonyms = map[string]string{
	"size":        AttrSize,
	"dimensions":  AttrSize,
	"framecolor":  AttrFrameColor,
	"framecolour": AttrFrameColor,
	"frame":       AttrFrameColor,
	"mount":       AttrMount,
	"mat":         AttrMount,
	"mountcolor":  AttrMountColor,
	"mountcolour": AttrMountColor,
	"matcolor":    AttrMountColor,
	"glaze":       AttrGlaze,
	"glazing":     AttrGlaze,
	"papertype":   AttrPaperType,
	"paper":       AttrPaperType,
	"finish":      AttrFinish,
	"wrap":        AttrWrap,
	"wrapcolor":   AttrWrap,
	"edge":        AttrEdge,
	"edgedepth":   AttrEdge,
}

// Pair is one canonical key/value pair.
type Pair struct {
	Key   string
	Value string
}

// CanonicalAttributes is the canonical form of a configuration attribute
// map: synonym-resolved keys, trimmed and case-folded values, sorted
// lexicographically by key. Constructing one through NormalizeAttributes is
// the only supported path; the sorted-pair representation makes the
// canonical ordering part of the type rather than a convention callers have
// to remember.
type CanonicalAttributes struct {
	pairs []Pair
}

// NormalizeAttributes canonicalizes an attribute map. Two maps that are
// semantically equal under case-folding, key-synonym resolution and key
// reordering normalize to the same CanonicalAttributes. Empty values are
// omitted so their absence cannot perturb the canonical form. Unknown keys
// pass through trimmed and case-folded; they are not dropped.
func NormalizeAttributes(attrs Attributes) CanonicalAttributes {
	merged := make(map[string]string, len(attrs))
	for key, value := range attrs {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		canonical, ok := keySynonyms[foldKey(key)]
		if !ok {
			canonical = strings.ToLower(strings.TrimSpace(key))
		}
		if canonical == "" {
			continue
		}

		merged[canonical] = strings.ToLower(value)
	}

	pairs := make([]Pair, 0, len(merged))
	for key, value := range merged {
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Key < pairs[j].Key
	})

	return CanonicalAttributes{pairs: pairs}
}

// foldKey lowercases a key and strips separator characters so synonym
// lookup is insensitive to snake_case/kebab-case/camelCase spelling.
func foldKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, " ", "")
	return key
}

// Pairs returns the sorted canonical key/value pairs.
func (c CanonicalAttributes) Pairs() []Pair {
	out := make([]Pair, len(c.pairs))
	copy(out, c.pairs)
	return out
}

// Len returns the number of canonical pairs.
func (c CanonicalAttributes) Len() int {
	return len(c.pairs)
}

// Get returns the value for a canonical key.
func (c CanonicalAttributes) Get(key string) (string, bool) {
	for _, p := range c.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Map returns the canonical pairs as a plain map, for serialization into
// provider requests.
func (c CanonicalAttributes) Map() map[string]string {
	out := make(map[string]string, len(c.pairs))
	for _, p := range c.pairs {
		out[p.Key] = p.Value
	}
	return out
}

// String serializes the canonical pairs as "k1=v1;k2=v2;...". Because the
// pairs are sorted, the serialization is byte-identical for semantically
// equal attribute maps.
func (c CanonicalAttributes) String() string {
	var b strings.Builder
	for i, p := range c.pairs {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}
