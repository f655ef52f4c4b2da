package resolver

import (
	"github.com/Ramsey-B/sorrel/pkg/matching"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/registry"
)

// OrganizationResolver resolves organization mentions
type OrganizationResolver struct {
	resolver *Resolver[string, models.Organization]
}

// NewOrganizationResolver accepts organizations whose name score clears threshold
func NewOrganizationResolver(scorer *matching.Scorer, threshold float64) *OrganizationResolver {
	score := func(cleaned string, c models.Organization) Score {
		best := scorer.NameScore(cleaned, Preclean(c.Name))
		for _, alt := range c.AlternateNames {
			best = max(best, scorer.NameScore(cleaned, Preclean(alt)))
		}
		return Score{Value: best, Accepted: best >= threshold}
	}
	return &OrganizationResolver{resolver: New(score, threshold)}
}

// Resolve matches an organization mention
func (r *OrganizationResolver) Resolve(m models.Mention, snapshot *registry.Snapshot) Resolution[models.Organization] {
	return r.ResolveText(m.Text, mentionIDs(m), snapshot)
}

// ResolveText matches free text against the organization registry
func (r *OrganizationResolver) ResolveText(text string, ids []string, snapshot *registry.Snapshot) Resolution[models.Organization] {
	for _, id := range ids {
		if o, ok := snapshot.OrganizationByID(id); ok {
			o.MatchScore, o.Confidence, o.MentionCount = 100, models.ConfidenceExact, 1
			return Resolution[models.Organization]{
				Entity: o,
				Result: models.MatchResult[models.Organization]{Candidate: &o, Score: 100, Tier: models.ConfidenceExact, Accepted: true, Rule: "external-id"},
			}
		}
	}

	display := Display(text)
	cleaned := Preclean(text)
	if cleaned == "" {
		result := models.Unresolved[models.Organization]()
		result.Rule = "filler"
		return Resolution[models.Organization]{
			Entity: models.Organization{Name: display, Confidence: models.ConfidenceUnresolved, MentionCount: 1},
			Result: result,
			Filler: true,
		}
	}

	result := r.resolver.Resolve(cleaned, snapshot.Organizations())
	result.Rule = "name"
	entity := models.Organization{Name: display, MatchScore: result.Score, Confidence: result.Tier, MentionCount: 1}
	if result.Accepted {
		entity = *result.Candidate
		entity.MatchScore, entity.Confidence, entity.MentionCount = result.Score, result.Tier, 1
	}
	return Resolution[models.Organization]{Entity: entity, Result: result}
}
