package letter

import (
	"cmp"
	"context"
	"slices"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sorrel/pkg/merging"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/normalizers"
	"github.com/Ramsey-B/sorrel/pkg/registry"
	"github.com/Ramsey-B/sorrel/pkg/roles"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// MaxRecipients caps the recipients kept per document
const MaxRecipients = 4

const (
	FieldAuthor    = "author"
	FieldRecipient = "recipient"
)

// Marked is an author or recipient taken from structural markup or a prior
// record. Marked persons are authoritative over free text.
type Marked struct {
	Field  string
	Source string
	Person models.Person
}

// Input is everything the resolver reads for one document
type Input struct {
	DocumentID string
	Lines      []string
	Marked     []Marked
	// Persons is the deduplicated mentioned-persons list
	Persons []models.Person
}

// Result holds the resolved authors and recipients
type Result struct {
	Authors    []models.Person
	Recipients []models.Person
	// Candidates are the free-text candidates before grouping
	Candidates []Candidate
	Conflicts  []models.IdentityConflict
	Review     []models.ReviewItem
}

// Resolver resolves the author and recipients of letters
type Resolver struct {
	logger ectologger.Logger
	engine *merging.Engine
	vocab  *roles.Vocabulary
}

// NewResolver creates a new letter resolver
func NewResolver(logger ectologger.Logger, engine *merging.Engine, vocab *roles.Vocabulary) *Resolver {
	return &Resolver{logger: logger, engine: engine, vocab: vocab}
}

// Resolve finds the author and recipients of one document. Free-text
// candidates are resolved against the registry and the document's persons;
// when marked persons exist they stay canonical and every disagreeing
// free-text candidate becomes an identity conflict.
func (r *Resolver) Resolve(ctx context.Context, in Input, snapshot *registry.Snapshot) Result {
	ctx, span := tracing.StartSpan(ctx, "letter.Resolver.Resolve")
	defer span.End()

	var res Result

	var authors []Candidate
	if c, ok := FindAuthor(in.Lines, r.vocab); ok {
		authors = append(authors, r.resolveCandidate(c, in.Persons, snapshot))
	}
	recipients := r.group(r.resolveAll(FindRecipients(in.Lines, r.vocab), in.Persons, snapshot))
	res.Candidates = append(append(res.Candidates, authors...), recipients...)

	res.Authors = r.reconcile(ctx, &res, in, FieldAuthor, authors, snapshot)
	res.Recipients = r.reconcile(ctx, &res, in, FieldRecipient, recipients, snapshot)
	if len(res.Recipients) > MaxRecipients {
		res.Recipients = res.Recipients[:MaxRecipients]
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id": in.DocumentID,
		"authors":     len(res.Authors),
		"recipients":  len(res.Recipients),
		"conflicts":   len(res.Conflicts),
	}).Debug("Resolved letter header and footer")

	return res
}

func (r *Resolver) resolveAll(candidates []Candidate, persons []models.Person, snapshot *registry.Snapshot) []Candidate {
	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		out[i] = r.resolveCandidate(c, persons, snapshot)
	}
	return out
}

// resolveCandidate runs the registry pass and then adopts the matching
// document person so that the candidate carries its full record
func (r *Resolver) resolveCandidate(c Candidate, persons []models.Person, snapshot *registry.Snapshot) Candidate {
	entity, match := r.engine.ResolvePerson(c.Person, snapshot)
	c.match = match
	if j, swapped, ok := r.engine.Find(entity, persons); ok {
		c.adopted = true
		if swapped {
			entity = entity.Swapped()
		}
		merged, _ := persons[j].Merge(entity)
		merged.MentionCount = persons[j].MentionCount
		entity = merged
	}
	entity.RecipientScore = max(entity.RecipientScore, c.Person.RecipientScore)
	c.Person = entity
	return c
}

// group keeps, per forename, the candidate with the highest
// (completeness, score), then orders by score with first-seen ties
func (r *Resolver) group(candidates []Candidate) []Candidate {
	var order []string
	best := make(map[string]Candidate)
	for _, c := range candidates {
		key := groupKey(c.Person)
		if key == "" {
			continue
		}
		cur, exists := best[key]
		if !exists {
			order = append(order, key)
			best[key] = c
			continue
		}
		if better(c, cur) {
			best[key] = c
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(out) > MaxRecipients {
		out = out[:MaxRecipients]
	}
	return out
}

func groupKey(p models.Person) string {
	if key := normalizers.NormalizeName(p.Forename); key != "" {
		return key
	}
	return normalizers.NormalizeName(p.Familyname)
}

func better(a, b Candidate) bool {
	if ca, cb := a.Person.Completeness(), b.Person.Completeness(); ca != cb {
		return ca > cb
	}
	return a.Score > b.Score
}

// reconcile combines the marked persons of field with the free-text ones
func (r *Resolver) reconcile(ctx context.Context, res *Result, in Input, field string, free []Candidate, snapshot *registry.Snapshot) []models.Person {
	var canonical []models.Person
	var sources []string
	for _, m := range in.Marked {
		if m.Field != field || !m.Person.HasName() {
			continue
		}
		p, _ := r.engine.ResolvePerson(m.Person, snapshot)
		if j, swapped, ok := r.engine.Find(p, canonical); ok {
			canonical[j] = mergeKeepCount(canonical[j], p, swapped)
			continue
		}
		canonical = append(canonical, p)
		sources = append(sources, m.Source)
	}

	if len(canonical) == 0 {
		out := make([]models.Person, 0, len(free))
		for _, c := range free {
			out = append(out, c.Person)
			if !c.adopted && c.match.NeedsReview {
				r.unmatched(ctx, res, in.DocumentID, field, c)
			}
		}
		return out
	}

	for _, c := range free {
		if j, swapped, ok := r.engine.Find(c.Person, canonical); ok {
			canonical[j] = mergeKeepCount(canonical[j], c.Person, swapped)
			continue
		}

		conflict := models.IdentityConflict{
			Field:           field,
			Canonical:       canonical[0],
			CanonicalSource: sources[0],
			Competing:       c.Person,
			CompetingSource: c.Rule,
		}
		res.Conflicts = append(res.Conflicts, conflict)
		res.Review = append(res.Review, models.ReviewItem{
			DocumentID: in.DocumentID,
			Kind:       models.ReviewIdentityConflict,
			EntityType: models.MentionPerson,
			Text:       c.Person.FullName(),
			Line:       c.Line,
			Score:      c.Score,
			Detail:     field + " from " + c.Rule + " disagrees with " + sources[0],
			Identity:   &conflict,
		})
		r.logger.WithContext(ctx).WithFields(map[string]any{
			"document_id": in.DocumentID,
			"field":       field,
			"canonical":   canonical[0].FullName(),
			"competing":   c.Person.FullName(),
			"rule":        c.Rule,
		}).Warn("Conflicting identity, keeping marked record")
	}
	return canonical
}

// unmatched queues a free-text candidate the registry could not confirm.
// Adopted candidates were already queued with their mention.
func (r *Resolver) unmatched(ctx context.Context, res *Result, documentID, field string, c Candidate) {
	res.Review = append(res.Review, models.ReviewItem{
		DocumentID: documentID,
		Kind:       merging.ReviewKind(c.match.Tier),
		EntityType: models.MentionPerson,
		Text:       c.Person.FullName(),
		Line:       c.Line,
		Score:      c.match.Score,
		Tier:       c.match.Tier,
		Detail:     field + " from " + c.Rule,
	})
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id": documentID,
		"field":       field,
		"person":      c.Person.FullName(),
		"tier":        c.match.Tier,
		"rule":        c.Rule,
	}).Info("Free-text person has no registry match")
}

// mergeKeepCount merges two records of one person without counting the
// second as a new mention
func mergeKeepCount(a, b models.Person, swapped bool) models.Person {
	if swapped {
		b = b.Swapped()
	}
	merged, _ := a.Merge(b)
	merged.MentionCount = max(a.MentionCount, b.MentionCount)
	return merged
}

// EnsureMentioned guarantees every named author and recipient appears exactly
// once in mentioned. Roles flow in both directions between the matched
// records. The inputs are not modified.
func (r *Resolver) EnsureMentioned(authors, recipients, mentioned []models.Person) ([]models.Person, []models.Person, []models.Person) {
	outMentioned := append([]models.Person(nil), mentioned...)
	sync := func(list []models.Person) []models.Person {
		out := append([]models.Person(nil), list...)
		for i, p := range out {
			if !p.HasName() {
				continue
			}
			j, ok := r.findMentioned(p, outMentioned)
			if !ok {
				added := p
				added.RecipientScore = 0
				outMentioned = append(outMentioned, added)
				continue
			}
			shareRole(&out[i], &outMentioned[j])
		}
		return out
	}
	return sync(authors), sync(recipients), outMentioned
}

func (r *Resolver) findMentioned(p models.Person, mentioned []models.Person) (int, bool) {
	key := p.IdentityKey()
	for j, m := range mentioned {
		if m.IdentityKey() == key {
			return j, true
		}
	}
	j, _, ok := r.engine.Find(p, mentioned)
	return j, ok
}

func shareRole(a, b *models.Person) {
	switch {
	case a.Role == "" && b.Role != "":
		a.Role, a.RoleSchema = b.Role, b.RoleSchema
	case b.Role == "" && a.Role != "":
		b.Role, b.RoleSchema = a.Role, a.RoleSchema
	}
}
