package enrichment

import (
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/dates"
	"github.com/Ramsey-B/sorrel/pkg/models"
)

// linker attaches to an event block the entities annotated on its lines and
// those its capitalized tokens resolve to. Tokens inside a person span are
// not resolved again, and a token only links a person the document already
// mentions.
type linker struct {
	run *run
}

const tokenTrim = ".,;:!?()[]\"„“”'"

type identified interface {
	IdentityKey() string
}

// collector accumulates entities, skipping repeated identity keys
type collector[T identified] struct {
	items []T
	seen  map[string]bool
}

func newCollector[T identified]() *collector[T] {
	return &collector[T]{items: []T{}, seen: make(map[string]bool)}
}

func (c *collector[T]) add(v T) {
	key := v.IdentityKey()
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.items = append(c.items, v)
}

func (l *linker) Link(b dates.Block) ([]models.Person, []models.Place, []models.Organization) {
	r := l.run
	persons := newCollector[models.Person]()
	places := newCollector[models.Place]()
	orgs := newCollector[models.Organization]()

	mentioned := make(map[string]models.Person, len(r.persons))
	for _, p := range r.persons {
		mentioned[p.IdentityKey()] = p
	}

	covered := make(map[string]bool)
	for i, m := range r.personMentions {
		if m.Line < b.Start || m.Line > b.End {
			continue
		}
		for _, w := range strings.Fields(m.Text) {
			covered[strings.Trim(w, tokenTrim)] = true
		}
		if r.assigned[i].HasName() {
			persons.add(r.assigned[i])
		}
	}
	for line := b.Start; line <= b.End; line++ {
		for _, p := range r.placesByLine[line] {
			places.add(p)
		}
		for _, o := range r.orgsByLine[line] {
			orgs.add(o)
		}
	}

	for _, tok := range dates.CapitalizedTokens(b.Text()) {
		if covered[tok] {
			continue
		}
		if res := r.e.places.ResolveText(tok, nil, r.e.snapshot); res.Result.Accepted {
			places.add(res.Entity)
		}
		if res := r.e.organizations.ResolveText(tok, nil, r.e.snapshot); res.Result.Accepted {
			orgs.add(res.Entity)
		}
		if p, res := r.e.engine.ResolvePerson(models.Person{Familyname: tok}, r.e.snapshot); res.Accepted {
			if known, ok := mentioned[p.IdentityKey()]; ok {
				persons.add(known)
			}
		}
	}

	return persons.items, places.items, orgs.items
}
