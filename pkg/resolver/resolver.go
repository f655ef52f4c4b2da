// Package resolver matches person, place and organization mentions against
// the registry snapshot
package resolver

import (
	"iter"

	"github.com/Ramsey-B/sorrel/pkg/matching"
	"github.com/Ramsey-B/sorrel/pkg/models"
)

// Score is the outcome of comparing one mention with one candidate
type Score struct {
	Value    float64
	Accepted bool
}

// ScoreFunc compares a mention of type M with a registry candidate of type R
type ScoreFunc[M, R any] func(mention M, candidate R) Score

// Resolver keeps the highest scoring accepted candidate. When nothing is
// accepted the best rejected candidate above the low-confidence floor is
// reported for review; otherwise the result is unresolved.
type Resolver[M, R any] struct {
	score    ScoreFunc[M, R]
	minScore float64
}

// New creates a resolver accepting candidates whose score clears minScore
func New[M, R any](score ScoreFunc[M, R], minScore float64) *Resolver[M, R] {
	return &Resolver[M, R]{score: score, minScore: minScore}
}

// Resolve scores mention against every candidate. Ties keep the first candidate.
func (r *Resolver[M, R]) Resolve(mention M, candidates iter.Seq[R]) models.MatchResult[R] {
	var (
		best, rejected           *R
		bestScore, rejectedScore float64
	)

	for c := range candidates {
		s := r.score(mention, c)
		if s.Accepted && s.Value >= r.minScore {
			if best == nil || s.Value > bestScore {
				candidate := c
				best, bestScore = &candidate, s.Value
			}
			continue
		}
		if rejected == nil || s.Value > rejectedScore {
			candidate := c
			rejected, rejectedScore = &candidate, s.Value
		}
	}

	switch {
	case best != nil:
		return models.MatchResult[R]{
			Candidate: best,
			Score:     bestScore,
			Tier:      matching.Tier(bestScore, true),
			Accepted:  true,
		}
	case rejected != nil && rejectedScore >= matching.LowConfidenceFloor:
		return models.MatchResult[R]{
			Candidate:   rejected,
			Score:       rejectedScore,
			Tier:        models.ConfidenceLow,
			NeedsReview: true,
		}
	default:
		return models.Unresolved[R]()
	}
}
