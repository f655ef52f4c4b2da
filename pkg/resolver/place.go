package resolver

import (
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/matching"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/registry"
)

// Resolution pairs the entity built from a mention with its match result
type Resolution[T any] struct {
	Entity T
	Result models.MatchResult[T]
	// Filler is set when nothing but blacklisted filler tokens remained
	Filler bool
}

// idAttributes are annotation attributes that may carry an external id
var idAttributes = []string{"wikiData", "wikidata", "geonames", "geonamesId", "ref", "id"}

func mentionIDs(m models.Mention) []string {
	ids := make([]string, 0, len(idAttributes)+1)
	for _, key := range idAttributes {
		if v := strings.TrimSpace(m.Attr(key)); v != "" {
			ids = append(ids, v)
		}
	}
	return append(ids, strings.TrimSpace(m.Text))
}

// PlaceResolver resolves place mentions
type PlaceResolver struct {
	resolver *Resolver[string, models.Place]
}

// NewPlaceResolver accepts places whose name score clears threshold
func NewPlaceResolver(scorer *matching.Scorer, threshold float64) *PlaceResolver {
	score := func(cleaned string, c models.Place) Score {
		best := scorer.NameScore(cleaned, Preclean(c.Name))
		for _, alt := range c.AlternateNames {
			best = max(best, scorer.NameScore(cleaned, Preclean(alt)))
		}
		return Score{Value: best, Accepted: best >= threshold}
	}
	return &PlaceResolver{resolver: New(score, threshold)}
}

// Resolve matches a place mention; annotation ids short-circuit to an exact match
func (r *PlaceResolver) Resolve(m models.Mention, snapshot *registry.Snapshot) Resolution[models.Place] {
	res := r.ResolveText(m.Text, mentionIDs(m), snapshot)
	if !res.Result.Accepted {
		if id := m.Attr("wikiData"); id != "" && res.Entity.WikidataID == "" {
			res.Entity.WikidataID = id
		}
		if id := m.Attr("geonames"); id != "" && res.Entity.GeonamesID == "" {
			res.Entity.GeonamesID = id
		}
	}
	return res
}

// ResolveText matches free text, e.g. a capitalized token of an event block
func (r *PlaceResolver) ResolveText(text string, ids []string, snapshot *registry.Snapshot) Resolution[models.Place] {
	for _, id := range ids {
		if p, ok := snapshot.PlaceByID(id); ok {
			p.MatchScore, p.Confidence, p.MentionCount = 100, models.ConfidenceExact, 1
			return Resolution[models.Place]{
				Entity: p,
				Result: models.MatchResult[models.Place]{Candidate: &p, Score: 100, Tier: models.ConfidenceExact, Accepted: true, Rule: "external-id"},
			}
		}
	}

	display := Display(text)
	cleaned := Preclean(text)
	if cleaned == "" {
		result := models.Unresolved[models.Place]()
		result.Rule = "filler"
		return Resolution[models.Place]{
			Entity: models.Place{Name: display, Confidence: models.ConfidenceUnresolved, MentionCount: 1},
			Result: result,
			Filler: true,
		}
	}

	result := r.resolver.Resolve(cleaned, snapshot.Places())
	result.Rule = "name"
	entity := models.Place{Name: display, MatchScore: result.Score, Confidence: result.Tier, MentionCount: 1}
	if result.Accepted {
		entity = *result.Candidate
		entity.MatchScore, entity.Confidence, entity.MentionCount = result.Score, result.Tier, 1
	}
	return Resolution[models.Place]{Entity: entity, Result: result}
}
