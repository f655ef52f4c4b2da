package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"both empty", "", "", 100},
		{"one empty", "otto", "", 0},
		{"identical", "bollinger", "bollinger", 100},
		{"one edit", "bolinger", "bollinger", 100 * (1 - 1.0/9)},
		{"umlaut counts as one rune", "müller", "muller", 100 * (1 - 1.0/6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Ratio(tt.a, tt.b), 0.001)
		})
	}
}

func TestBestRatio(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 100.0, s.BestRatio("müller", "mueller"))
	assert.Equal(t, 100.0, s.BestRatio("strauss", "strauß"))
	assert.Equal(t, 0.0, s.BestRatio("", "otto"))
	assert.Less(t, s.BestRatio("otto", "karl"), 50.0)
}

func TestLevenshteinDistance(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 0, s.LevenshteinDistance("abc", "abc"))
	assert.Equal(t, 3, s.LevenshteinDistance("", "abc"))
	assert.Equal(t, 1, s.LevenshteinDistance("häuser", "hauser"))
	assert.Equal(t, 3, s.LevenshteinDistance("kitten", "sitting"))
}

func TestJaroWinkler(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 1.0, s.JaroWinkler("stuttgart", "stuttgart"))
	assert.Equal(t, 0.0, s.Jaro("", "abc"))
	assert.Greater(t, s.JaroWinkler("stuttg", "stuttgart"), s.Jaro("stuttg", "stuttgart"))
	assert.InDelta(t, 0.961, s.JaroWinkler("martha", "marhta"), 0.001)
}

func TestNameScore(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 100.0, s.NameScore("liederkranz stuttgart", "liederkranz stuttgart"))
	assert.Equal(t, 100.0, s.NameScore("stuttgart liederkranz", "liederkranz stuttgart"))
	assert.Greater(t, s.NameScore("esslingen", "eßlingen"), 99.0)
	assert.Equal(t, 0.0, s.NameScore("", "stuttgart"))
	assert.Less(t, s.NameScore("ulm", "stuttgart"), 50.0)
}

func TestWeightedScore(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 0.0, s.WeightedScore(nil, nil))
	assert.InDelta(t, 75.0, s.WeightedScore(map[string]float64{"a": 100, "b": 50}, nil), 0.001)
	assert.InDelta(t, 90.0, s.WeightedScore(map[string]float64{"a": 100, "b": 50}, map[string]float64{"a": 0.8, "b": 0.2}), 0.001)
}
