package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  NameParts
	}{
		{"empty", "", NameParts{}},
		{"whitespace only", "   ", NameParts{}},
		{"plain", "Otto Bollinger", NameParts{Normalized: "otto bollinger"}},
		{"title stripped", "Herrn Otto Bollinger", NameParts{Normalized: "otto bollinger", Title: "herrn"}},
		{"stacked titles", "Herr Dr. Müller", NameParts{Normalized: "müller", Title: "herr dr"}},
		{"punctuation removed", "O. Bollinger,", NameParts{Normalized: "o bollinger"}},
		{"hyphen kept", "Anna-Maria Schäfer", NameParts{Normalized: "anna-maria schäfer"}},
		{"dangling hyphen dropped", "Bollin- ger", NameParts{Normalized: "bollin ger"}},
		{"whitespace collapsed", "  Otto \t  Bollinger ", NameParts{Normalized: "otto bollinger"}},
		{"nickname folded", "Fritz", NameParts{Normalized: "friedrich"}},
		{"nickname only as whole form", "Fritz Maier", NameParts{Normalized: "fritz maier"}},
		{"title only", "Frau", NameParts{Title: "frau"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseName(tt.input))
		})
	}
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "josef", Canonical("sepp"))
	assert.Equal(t, "otto", Canonical("otto"))
}

func TestNormalizePlace(t *testing.T) {
	assert.Equal(t, "stuttgart", NormalizePlace("(Stuttgart):"))
	assert.Equal(t, "bad cannstatt", NormalizePlace("[Bad  Cannstatt]"))
	assert.Equal(t, "", NormalizePlace(""))
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, "vorsitzender", NormalizeRole(" Vorsitzender, "))
	assert.Equal(t, "1 vorstand", NormalizeRole("1. Vorstand"))
}

func TestRegistry(t *testing.T) {
	fn, ok := Get("nname")
	require.True(t, ok)
	assert.Equal(t, "otto", fn("Herr Otto"))

	_, ok = Get("missing")
	assert.False(t, ok)

	assert.Equal(t, "Value", Apply("Value", "missing"))
	assert.Equal(t, "ottobollinger", ApplyChain(" Otto Bollinger ", "lowercase", "trim", "remove_whitespace"))

	Register("reverse_test", func(s string) string {
		r := []rune(s)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return string(r)
	})
	assert.Equal(t, "otto", Apply("otto", "reverse_test"))
	assert.Equal(t, "regnillob", Apply("bollinger", "reverse_test"))
}

func TestVariants(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Variants(""))
	})

	t.Run("original first", func(t *testing.T) {
		v := Variants("müller")
		require.NotEmpty(t, v)
		assert.Equal(t, "müller", v[0])
		assert.Contains(t, v, "mueller")
		assert.Contains(t, v, "muller")
	})

	t.Run("folds back to umlaut", func(t *testing.T) {
		assert.Contains(t, Variants("mueller"), "müller")
	})

	t.Run("sharp s", func(t *testing.T) {
		assert.Contains(t, Variants("strauß"), "strauss")
	})

	t.Run("capped and unique", func(t *testing.T) {
		v := Variants("größenmüller-häußermann")
		assert.LessOrEqual(t, len(v), MaxVariants)
		seen := map[string]bool{}
		for _, s := range v {
			assert.False(t, seen[s], "duplicate variant %q", s)
			seen[s] = true
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, Variants("böhm"), Variants("böhm"))
	})
}
