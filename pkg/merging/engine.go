// Package merging collapses repeated mentions of one real-world entity within
// a document into a single enriched record
package merging

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sorrel/pkg/matching"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/registry"
	"github.com/Ramsey-B/sorrel/pkg/resolver"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// Outcome is the result of deduplicating the person mentions of one document
type Outcome struct {
	Persons []models.Person
	// Assignments maps every input index to its index in Persons
	Assignments []int
	Conflicts   []models.MergeConflict
	Review      []models.ReviewItem
}

// Engine deduplicates persons in two passes: registry first, then the
// document's own growing list of resolved persons
type Engine struct {
	logger            ectologger.Logger
	persons           *resolver.PersonResolver
	scorer            *matching.PersonScorer
	documentThreshold float64
}

// NewEngine creates a new merge engine. Registry hits use the threshold the
// person resolver was built with; document matches use documentThreshold.
func NewEngine(logger ectologger.Logger, persons *resolver.PersonResolver, documentThreshold float64) *Engine {
	return &Engine{
		logger:            logger,
		persons:           persons,
		scorer:            persons.Scorer(),
		documentThreshold: documentThreshold,
	}
}

// Deduplicate resolves and merges the person mentions of one document in order.
// Earlier mentions win equal-length ties.
func (e *Engine) Deduplicate(ctx context.Context, mentions []models.Person, snapshot *registry.Snapshot) Outcome {
	ctx, span := tracing.StartSpan(ctx, "merging.Engine.Deduplicate")
	defer span.End()

	out := Outcome{Assignments: make([]int, len(mentions))}

	for i, m := range mentions {
		entity, res := e.ResolvePerson(m, snapshot)

		if j, swapped, ok := e.Find(entity, out.Persons); ok {
			if swapped {
				entity = entity.Swapped()
			}
			merged, conflicts := out.Persons[j].Merge(entity)
			out.Persons[j] = merged
			out.Assignments[i] = j
			out.Conflicts = append(out.Conflicts, conflicts...)
			continue
		}

		out.Persons = append(out.Persons, entity)
		out.Assignments[i] = len(out.Persons) - 1

		if res.NeedsReview {
			out.Review = append(out.Review, models.ReviewItem{
				Kind:       ReviewKind(res.Tier),
				EntityType: models.MentionPerson,
				Text:       mentions[i].FullName(),
				Score:      res.Score,
				Tier:       res.Tier,
			})
		}
	}

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"mentions":  len(mentions),
		"persons":   len(out.Persons),
		"conflicts": len(out.Conflicts),
	}).Debug("Deduplicated person mentions")

	return out
}

// ResolvePerson runs the registry pass for one mention. An accepted registry
// record becomes the base and the mention only fills its empty fields.
func (e *Engine) ResolvePerson(m models.Person, snapshot *registry.Snapshot) (models.Person, models.MatchResult[models.Person]) {
	res := e.persons.Resolve(m, snapshot)
	if !res.Accepted {
		m.MatchScore, m.Confidence = res.Score, res.Tier
		return m, res
	}

	base := *res.Candidate
	base.MatchScore, base.Confidence = res.Score, res.Tier
	if e.scorer.Score(m, base).Swapped {
		m = m.Swapped()
	}
	return base.Fill(m), res
}

// Find returns the index of the resolved person p refers to: the same
// registry id, or the best document match at or above the document threshold
func (e *Engine) Find(p models.Person, persons []models.Person) (int, bool, bool) {
	if p.RegistryID != "" {
		for j, existing := range persons {
			if existing.RegistryID == p.RegistryID {
				return j, e.scorer.Score(p, existing).Swapped, true
			}
		}
	}

	best, bestScore, bestSwapped := -1, 0.0, false
	for j, existing := range persons {
		if existing.RegistryID != "" && p.RegistryID != "" {
			continue
		}
		match := e.scorer.Best(existing, p)
		if !match.FieldsOK || match.Vetoed || match.Score < e.documentThreshold {
			continue
		}
		if best < 0 || match.Score > bestScore {
			best, bestScore, bestSwapped = j, match.Score, match.Swapped
		}
	}
	return best, bestSwapped, best >= 0
}

// ReviewKind is the review queue kind for a person left below acceptance
func ReviewKind(tier models.Confidence) models.ReviewKind {
	if tier == models.ConfidenceLow {
		return models.ReviewLowConfidence
	}
	return models.ReviewUnresolved
}
