// Package matching scores mentions against registry candidates
package matching

import (
	"sort"
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/normalizers"
)

// Scorer provides the string comparison algorithms used by the resolvers.
// All comparisons operate on runes.
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Ratio returns the normalized Levenshtein similarity of a and b on a 0-100 scale
func (s *Scorer) Ratio(a, b string) float64 {
	return s.Levenshtein(a, b) * 100
}

// BestRatio returns the highest Ratio over the OCR variants of both sides
func (s *Scorer) BestRatio(a, b string) float64 {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	best := 0.0
	bVariants := normalizers.Variants(b)
	for _, av := range normalizers.Variants(a) {
		for _, bv := range bVariants {
			if r := s.Ratio(av, bv); r > best {
				best = r
				if best == 100 {
					return best
				}
			}
		}
	}
	return best
}

// TokenSortRatio compares a and b after sorting their whitespace separated tokens
func (s *Scorer) TokenSortRatio(a, b string) float64 {
	return s.BestRatio(sortTokens(a), sortTokens(b))
}

// NameScore scores two normalized place or organization names. Edit distance
// dominates; Jaro-Winkler rewards shared prefixes such as "stuttg".
func (s *Scorer) NameScore(a, b string) float64 {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	weighted := s.WeightedScore(
		map[string]float64{"ratio": s.BestRatio(a, b), "prefix": s.JaroWinkler(a, b) * 100},
		map[string]float64{"ratio": 0.7, "prefix": 0.3},
	)
	return max(weighted, s.TokenSortRatio(a, b))
}

// JaroWinkler calculates the Jaro-Winkler similarity between two strings
// Returns a value between 0.0 (no similarity) and 1.0 (exact match)
func (s *Scorer) JaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}

	jaro := s.Jaro(a, b)
	ar, br := []rune(a), []rune(b)

	// Winkler modification: boost for common prefix
	prefixLen := 0
	maxPrefix := 4
	for i := 0; i < len(ar) && i < len(br) && i < maxPrefix; i++ {
		if ar[i] != br[i] {
			break
		}
		prefixLen++
	}

	scalingFactor := 0.1
	return jaro + float64(prefixLen)*scalingFactor*(1.0-jaro)
}

// Jaro calculates the Jaro similarity between two strings
func (s *Scorer) Jaro(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ar, br := []rune(a), []rune(b)
	if len(ar) == 0 || len(br) == 0 {
		return 0.0
	}

	// Maximum distance for character matching
	matchDist := max(len(ar), len(br))/2 - 1
	if matchDist < 0 {
		matchDist = 0
	}

	aMatches := make([]bool, len(ar))
	bMatches := make([]bool, len(br))

	matches := 0
	transpositions := 0

	for i := range ar {
		start := max(0, i-matchDist)
		end := min(len(br), i+matchDist+1)

		for j := start; j < end; j++ {
			if bMatches[j] || ar[i] != br[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	k := 0
	for i := range ar {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if ar[i] != br[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2

	return (m/float64(len(ar)) + m/float64(len(br)) + (m-t)/m) / 3
}

// Levenshtein calculates the Levenshtein distance between two strings
// Returns a similarity score between 0.0 and 1.0
func (s *Scorer) Levenshtein(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	distance := s.LevenshteinDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}

// LevenshteinDistance calculates the edit distance between two strings
func (s *Scorer) LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	ar, br := []rune(a), []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	// Create two rows for dynamic programming
	row := make([]int, len(br)+1)
	prevRow := make([]int, len(br)+1)

	for j := 0; j <= len(br); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(ar); i++ {
		row[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 0
			if ar[i-1] != br[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(br)]
}

// WeightedScore calculates a weighted average of scores. Fields without an
// entry in weights count with weight 1.
func (s *Scorer) WeightedScore(scores map[string]float64, weights map[string]float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	var totalWeight float64
	var weightedSum float64

	for field, score := range scores {
		weight := 1.0
		if w, ok := weights[field]; ok {
			weight = w
		}
		weightedSum += score * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0.0
	}

	return weightedSum / totalWeight
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
