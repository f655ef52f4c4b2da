package models

// Confidence is the discrete bucket summarizing how certain a registry match is
type Confidence string

const (
	ConfidenceExact      Confidence = "exact"
	ConfidenceFuzzy      Confidence = "fuzzy"
	ConfidenceLow        Confidence = "low-confidence"
	ConfidenceUnresolved Confidence = "unresolved"
)

// Rank orders tiers so the more certain one can be kept on merge
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceExact:
		return 3
	case ConfidenceFuzzy:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// MatchResult is the outcome of resolving one mention against a registry.
// Unresolved is an ordinary outcome, not an error.
type MatchResult[T any] struct {
	Candidate   *T         `json:"candidate,omitempty"`
	Score       float64    `json:"score"`
	Tier        Confidence `json:"tier"`
	Accepted    bool       `json:"accepted"`
	NeedsReview bool       `json:"needs_review"`
	Rule        string     `json:"rule,omitempty"`
}

// Resolved reports whether the result carries an accepted candidate
func (r MatchResult[T]) Resolved() bool {
	return r.Accepted && r.Candidate != nil
}

// Unresolved builds the terminal no-match result
func Unresolved[T any]() MatchResult[T] {
	return MatchResult[T]{Tier: ConfidenceUnresolved, NeedsReview: true}
}
