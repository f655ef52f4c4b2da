package resolver

import (
	"github.com/Ramsey-B/sorrel/pkg/matching"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/registry"
)

// PersonResolver resolves person mentions against the person registry
type PersonResolver struct {
	scorer   *matching.PersonScorer
	resolver *Resolver[models.Person, models.Person]
}

// NewPersonResolver accepts registry persons scoring at least minScore
func NewPersonResolver(scorer *matching.PersonScorer, minScore float64) *PersonResolver {
	score := func(m, c models.Person) Score {
		match := scorer.Score(m, c)
		return Score{Value: match.Score, Accepted: match.FieldsOK && !match.Vetoed}
	}
	return &PersonResolver{
		scorer:   scorer,
		resolver: New(score, minScore),
	}
}

// Resolve matches one person against the registry
func (r *PersonResolver) Resolve(p models.Person, snapshot *registry.Snapshot) models.MatchResult[models.Person] {
	res := r.resolver.Resolve(p, snapshot.Persons())
	res.Rule = "registry"
	return res
}

// Scorer returns the underlying person scorer
func (r *PersonResolver) Scorer() *matching.PersonScorer {
	return r.scorer
}
