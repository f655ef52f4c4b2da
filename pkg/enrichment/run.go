package enrichment

import (
	"context"
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/annotation"
	"github.com/Ramsey-B/sorrel/pkg/dates"
	"github.com/Ramsey-B/sorrel/pkg/letter"
	"github.com/Ramsey-B/sorrel/pkg/merging"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/resolver"
)

// roleWindow is the largest gap, in characters, between a role span and the
// person span it annotates
const roleWindow = 3

// run is the state of one document passing through the pipeline
type run struct {
	e     *Enricher
	t     *models.Transcript
	prior *models.Document
	texts []string

	mentions       []models.Mention
	personMentions []models.Mention
	malformed      []annotation.MalformedError
	review         []models.ReviewItem
	conflicts      []models.MergeConflict

	// assigned holds the role-assigned person of every person mention
	assigned []models.Person
	persons  []models.Person

	places        []models.Place
	placesByLine  map[int][]models.Place
	orgs          []models.Organization
	orgsByLine    map[int][]models.Organization
	authors       []models.Person
	recipients    []models.Person
	heading       dates.Heading
	hasHeading    bool
	dates         []models.DateRecord
	events        []models.Event
	doc           *models.Document
}

func newRun(e *Enricher, t *models.Transcript) *run {
	prior := t.Prior
	if prior == nil {
		prior = models.NewDocument()
	}
	return &run{
		e:            e,
		t:            t,
		prior:        prior,
		texts:        t.Texts(),
		placesByLine: make(map[int][]models.Place),
		orgsByLine:   make(map[int][]models.Organization),
	}
}

func (r *run) addReview(item models.ReviewItem) {
	item.DocumentID = r.t.ID
	r.review = append(r.review, item)
}

// extract turns the line annotations into mentions
func (r *run) extract() {
	lines := make([]annotation.Line, len(r.t.Lines))
	for i, l := range r.t.Lines {
		lines[i] = annotation.Line{Text: l.Text, Custom: l.Custom}
	}

	mentions, malformed := annotation.ExtractMentions(lines)
	r.malformed = malformed
	for _, m := range malformed {
		r.addReview(models.ReviewItem{
			Kind:       models.ReviewMalformed,
			EntityType: models.MentionKind(m.Kind),
			Line:       m.Line,
			Detail:     m.Error(),
		})
	}

	r.mentions = resolver.CollapseCompounds(attachRoles(mentions), r.e.snapshot)
	for _, m := range r.mentions {
		if m.Kind == models.MentionPerson {
			r.personMentions = append(r.personMentions, m)
		}
	}
}

// attachRoles copies a role span directly before or after a person span on
// the same line into the person's role attribute
func attachRoles(mentions []models.Mention) []models.Mention {
	out := make([]models.Mention, len(mentions))
	copy(out, mentions)
	for i := range out {
		if out[i].Kind != models.MentionPerson || out[i].Attr("role") != "" {
			continue
		}
		for _, m := range mentions {
			if m.Kind != models.MentionRole || m.Line != out[i].Line {
				continue
			}
			before := out[i].Offset - m.End()
			after := m.Offset - out[i].End()
			if (before >= 0 && before <= roleWindow) || (after >= 0 && after <= roleWindow) {
				attrs := make(map[string]string, len(out[i].Attributes)+1)
				for k, v := range out[i].Attributes {
					attrs[k] = v
				}
				attrs["role"] = m.Text
				out[i].Attributes = attrs
				break
			}
		}
	}
	return out
}

// resolvePersons resolves, deduplicates, assigns roles and reconciles the
// persons with the prior record
func (r *run) resolvePersons(ctx context.Context) {
	raw := make([]models.Person, len(r.personMentions))
	for i, m := range r.personMentions {
		raw[i] = annotation.SplitPersonName(m)
	}

	out := r.e.engine.Deduplicate(ctx, raw, r.e.snapshot)
	for _, item := range out.Review {
		r.addReview(item)
	}
	r.conflicts = append(r.conflicts, out.Conflicts...)

	persons := r.e.roles.Assign(ctx, out.Persons, out.Assignments, r.personMentions, r.texts)
	persons = r.e.roles.Correct(persons)

	r.assigned = make([]models.Person, len(r.personMentions))
	for i, j := range out.Assignments {
		r.assigned[i] = persons[j]
	}

	reconciled, conflicts := r.e.engine.Reconcile(r.prior.MentionedPersons, persons)
	r.persons = reconciled
	r.conflicts = append(r.conflicts, conflicts...)

	for _, c := range r.conflicts {
		r.addReview(models.ReviewItem{
			Kind:          models.ReviewMergeConflict,
			EntityType:    models.MentionPerson,
			Text:          strings.Join(c.Values, " / "),
			Detail:        c.Field,
			MergeConflict: &c,
		})
	}
}

// resolvePlaces resolves every place mention; bare filler mentions with no
// corroborating id are dropped
func (r *run) resolvePlaces() {
	var places []models.Place
	for _, m := range r.mentions {
		if m.Kind != models.MentionPlace {
			continue
		}
		res := r.e.places.Resolve(m, r.e.snapshot)
		if res.Filler && res.Entity.GeonamesID == "" && res.Entity.WikidataID == "" {
			r.e.logger.WithField("text", m.Text).Debug("Dropped filler place mention")
			continue
		}
		if res.Result.NeedsReview {
			r.addReview(reviewFor(m, res.Result.Score, res.Result.Tier))
		}
		places = append(places, res.Entity)
		r.placesByLine[m.Line] = append(r.placesByLine[m.Line], res.Entity)
	}

	deduped, conflicts := merging.DeduplicatePlaces(places)
	r.conflicts = append(r.conflicts, conflicts...)
	r.places = merging.ReconcilePlaces(r.prior.MentionedPlaces, deduped)
}

func (r *run) resolveOrganizations() {
	var orgs []models.Organization
	for _, m := range r.mentions {
		if m.Kind != models.MentionOrganization {
			continue
		}
		res := r.e.organizations.Resolve(m, r.e.snapshot)
		if res.Filler {
			r.e.logger.WithField("text", m.Text).Debug("Dropped filler organization mention")
			continue
		}
		if res.Result.NeedsReview {
			r.addReview(reviewFor(m, res.Result.Score, res.Result.Tier))
		}
		orgs = append(orgs, res.Entity)
		r.orgsByLine[m.Line] = append(r.orgsByLine[m.Line], res.Entity)
	}

	deduped, conflicts := merging.DeduplicateOrganizations(orgs)
	r.conflicts = append(r.conflicts, conflicts...)
	r.orgs = merging.ReconcileOrganizations(r.prior.MentionedOrganizations, deduped)
}

func reviewFor(m models.Mention, score float64, tier models.Confidence) models.ReviewItem {
	kind := models.ReviewUnresolved
	if tier == models.ConfidenceLow {
		kind = models.ReviewLowConfidence
	}
	return models.ReviewItem{
		Kind:       kind,
		EntityType: m.Kind,
		Text:       m.Text,
		Line:       m.Line,
		Score:      score,
		Tier:       tier,
	}
}

// resolveLetter derives authors and recipients and makes sure each of them
// is a mentioned person
func (r *run) resolveLetter(ctx context.Context) {
	var marked []letter.Marked
	for i, m := range r.personMentions {
		switch annotation.Structural(m) {
		case letter.FieldAuthor:
			marked = append(marked, letter.Marked{Field: letter.FieldAuthor, Source: "annotation", Person: r.assigned[i]})
		case letter.FieldRecipient:
			marked = append(marked, letter.Marked{Field: letter.FieldRecipient, Source: "annotation", Person: r.assigned[i]})
		}
	}
	for _, p := range r.prior.Authors {
		marked = append(marked, letter.Marked{Field: letter.FieldAuthor, Source: "prior", Person: p})
	}
	for _, p := range r.prior.Recipients {
		marked = append(marked, letter.Marked{Field: letter.FieldRecipient, Source: "prior", Person: p})
	}

	res := r.e.letters.Resolve(ctx, letter.Input{
		DocumentID: r.t.ID,
		Lines:      r.texts,
		Marked:     marked,
		Persons:    r.persons,
	}, r.e.snapshot)
	for _, item := range res.Review {
		r.addReview(item)
	}

	r.authors, r.recipients, r.persons = r.e.letters.EnsureMentioned(res.Authors, res.Recipients, r.persons)
}

// extractDates aggregates the date mentions and reads the letter heading
func (r *run) extractDates() {
	records, invalid := dates.Aggregate(r.mentions)
	for _, inv := range invalid {
		r.addReview(models.ReviewItem{
			Kind:       models.ReviewMalformed,
			EntityType: models.MentionDate,
			Text:       inv.Mention.Text,
			Line:       inv.Mention.Line,
			Detail:     inv.Err.Error(),
		})
	}
	r.dates = merging.ReconcileDates(r.prior.MentionedDates, records)
	r.heading, r.hasHeading = dates.HeadingDate(r.texts)
}

func (r *run) extractEvents() {
	year := ""
	switch {
	case r.prior.CreationDate != "":
		year = r.prior.CreationDate[:min(4, len(r.prior.CreationDate))]
	case r.hasHeading:
		year = r.heading.Date.Date[:4]
	}

	fresh := dates.BuildEvents(r.texts, r.mentions, &linker{run: r}, year)
	r.events = merging.ReconcileEvents(r.prior.MentionedEvents, fresh)
}

// assemble builds the document record. Values of the prior record win over
// freshly derived ones.
func (r *run) assemble() {
	doc := models.NewDocument()
	for k, v := range r.t.Attributes {
		doc.Attributes[k] = v
	}
	for k, v := range r.prior.Attributes {
		doc.Attributes[k] = v
	}

	doc.Authors = nonNil(r.authors)
	doc.Recipients = nonNil(r.recipients)
	doc.MentionedPersons = nonNil(r.persons)
	doc.MentionedPlaces = nonNil(r.places)
	doc.MentionedOrganizations = nonNil(r.orgs)
	doc.MentionedEvents = nonNil(r.events)
	doc.MentionedDates = nonNil(r.dates)
	doc.ContentTagsInGerman = nonNil(unionTags(r.prior.ContentTagsInGerman, r.t.ContentTags))
	doc.ContentTranscription = strings.Join(r.texts, "\n")
	doc.DocumentType = normalizeType(r.prior.DocumentType, r.t.DocumentType)
	doc.DocumentFormat = normalizeType(r.prior.DocumentFormat, r.t.DocumentFormat)

	doc.CreationDate = r.prior.CreationDate
	doc.CreationPlace = r.prior.CreationPlace
	if r.hasHeading {
		if doc.CreationDate == "" {
			doc.CreationDate = r.heading.Date.Date
		}
		if doc.CreationPlace == "" {
			doc.CreationPlace = r.creationPlace()
		}
	}

	r.doc = doc
}

// creationPlace prefers the registry name of the heading place
func (r *run) creationPlace() string {
	res := r.e.places.ResolveText(r.heading.Place, nil, r.e.snapshot)
	if res.Result.Accepted {
		return res.Entity.Name
	}
	return resolver.Display(r.heading.Place)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func unionTags(a, b []string) []string {
	out := append([]string(nil), a...)
	seen := make(map[string]bool, len(a)+len(b))
	for _, tag := range a {
		seen[strings.ToLower(tag)] = true
	}
	for _, tag := range b {
		key := strings.ToLower(strings.TrimSpace(tag))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(tag))
	}
	return out
}
