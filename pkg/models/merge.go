package models

import "strings"

// MergeStrategyType defines how a single field is reconciled when two records merge
type MergeStrategyType string

const (
	// MergeStrategyPreferNonEmpty uses the first non-empty value
	MergeStrategyPreferNonEmpty MergeStrategyType = "prefer_non_empty"
	// MergeStrategyLongestValue uses the longest value, first-seen on ties
	MergeStrategyLongestValue MergeStrategyType = "longest"
	// MergeStrategyFirstValue keeps the first-seen value unless it is empty
	MergeStrategyFirstValue MergeStrategyType = "first"
	// MergeStrategyNoOverwrite keeps the first-seen value and flags a conflict when both differ
	MergeStrategyNoOverwrite MergeStrategyType = "no_overwrite"
)

// MergeConflict represents a conflict during merge
type MergeConflict struct {
	Entity        string   `json:"entity"`
	Key           string   `json:"key"`
	Field         string   `json:"field"`
	Values        []string `json:"values"`
	Resolution    string   `json:"resolution"`
	ResolvedValue string   `json:"resolved_value"`
}

// MergeString reconciles two values of one field. a is the first-seen value.
// The returned conflict is nil unless both sides were populated and differ.
func MergeString(field, a, b string, strategy MergeStrategyType) (string, *MergeConflict) {
	if b == "" || a == b {
		return a, nil
	}
	if a == "" {
		return b, nil
	}

	var result string
	switch strategy {
	case MergeStrategyLongestValue:
		result = a
		if len([]rune(b)) > len([]rune(a)) {
			result = b
		}
		if strings.EqualFold(a, b) {
			return result, nil
		}
	case MergeStrategyNoOverwrite:
		return a, &MergeConflict{
			Field:         field,
			Values:        []string{a, b},
			Resolution:    string(strategy),
			ResolvedValue: a,
		}
	default:
		result = a
	}

	return result, &MergeConflict{
		Field:         field,
		Values:        []string{a, b},
		Resolution:    string(strategy),
		ResolvedValue: result,
	}
}

// mergeStrings is MergeString for callers that only report the hard conflicts
func mergeStrings(field, a, b string, strategy MergeStrategyType, conflicts *[]MergeConflict) string {
	v, c := MergeString(field, a, b, strategy)
	if c != nil && strategy == MergeStrategyNoOverwrite {
		*conflicts = append(*conflicts, *c)
	}
	return v
}

// unionStrings appends values of b missing from a, case-insensitively, keeping a's order
func unionStrings(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			k := strings.ToLower(strings.TrimSpace(v))
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}

func maxFloat(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}

func bestConfidence(a, b Confidence) Confidence {
	if b.Rank() > a.Rank() {
		return b
	}
	if a == "" {
		return b
	}
	return a
}
