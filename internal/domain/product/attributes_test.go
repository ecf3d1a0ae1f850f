package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAttributesCanonicalForm(t *testing.T) {
	tests := []struct {
		name  string
		input Attributes
		want  string
	}{
		{
			name:  "keys sorted and values folded",
			input: Attributes{"wrap": "Black", "edge": "38mm", "paperType": "Standard canvas (SC)"},
			want:  "edge=38mm;paperType=standard canvas (sc);wrap=black",
		},
		{
			name:  "synonym keys resolve to canonical spelling",
			input: Attributes{"mountcolour": "White", "mount_color": "White"},
			want:  "mountColor=white",
		},
		{
			name:  "empty values omitted",
			input: Attributes{"wrap": "Black", "edge": "", "glaze": "   "},
			want:  "wrap=black",
		},
		{
			name:  "unknown keys pass through folded",
			input: Attributes{"Special-Request": "Gift WRAP"},
			want:  "special-request=gift wrap",
		},
		{
			name:  "values trimmed",
			input: Attributes{"wrap": "  Black  "},
			want:  "wrap=black",
		},
		{
			name:  "nil map yields empty form",
			input: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAttributes(tt.input).String())
		})
	}
}

func TestNormalizeAttributesEquivalence(t *testing.T) {
	variants := []Attributes{
		{"wrap": "Black", "edge": "38mm", "paperType": "Standard canvas (SC)"},
		{"wrap": "black", "edge": "38mm", "papertype": "standard canvas (sc)"},
		{"edge": "38mm", "wrap": "Black", "paper_type": "Standard canvas (SC)"},
		{"EDGE": "38mm ", "Wrap": " BLACK", "PaperType": "Standard Canvas (SC)"},
	}

	want := NormalizeAttributes(variants[0]).String()
	for i, v := range variants[1:] {
		assert.Equal(t, want, NormalizeAttributes(v).String(), "variant %d diverged", i+1)
	}
}

func TestNormalizeAttributesIsPure(t *testing.T) {
	input := Attributes{"wrap": "Black"}
	first := NormalizeAttributes(input)
	second := NormalizeAttributes(input)

	assert.Equal(t, first.String(), second.String())
	// Input is left untouched.
	assert.Equal(t, "Black", input["wrap"])
}

func TestCanonicalAttributesAccessors(t *testing.T) {
	canonical := NormalizeAttributes(Attributes{"wrap": "Black", "edge": "38mm"})

	assert.Equal(t, 2, canonical.Len())

	value, ok := canonical.Get(AttrWrap)
	assert.True(t, ok)
	assert.Equal(t, "black", value)

	_, ok = canonical.Get(AttrGlaze)
	assert.False(t, ok)

	m := canonical.Map()
	assert.Equal(t, map[string]string{"wrap": "black", "edge": "38mm"}, m)

	// Mutating the returned map must not perturb the canonical form.
	m["wrap"] = "tampered"
	value, _ = canonical.Get(AttrWrap)
	assert.Equal(t, "black", value)
}
