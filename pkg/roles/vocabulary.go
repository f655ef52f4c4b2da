// Package roles detects functional roles such as treasurer or conductor and
// attaches them, with their schema code, to resolved persons
package roles

import (
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/normalizers"
	"github.com/Ramsey-B/sorrel/pkg/registry"
)

// Role is one controlled-vocabulary role
type Role struct {
	Name     string
	Schema   string
	Synonyms []string
}

// defaultRoles is the fixed role to schema-code table
var defaultRoles = []Role{
	{Name: "chairman", Schema: "CHAIR", Synonyms: []string{"vorsitzender", "vorsitzende", "vorstand", "präsident", "obmann", "vereinsführer", "vereinsvorsitzender", "president"}},
	{Name: "secretary", Schema: "SECRETARY", Synonyms: []string{"schriftführer", "schriftwart", "sekretär"}},
	{Name: "treasurer", Schema: "TREASURER", Synonyms: []string{"kassier", "kassierer", "kassenwart", "kassenführer", "rechner"}},
	{Name: "conductor", Schema: "CONDUCTOR", Synonyms: []string{"dirigent", "chorleiter", "chormeister", "musikdirektor", "kapellmeister"}},
	{Name: "honorary member", Schema: "HONORARY_MEMBER", Synonyms: []string{"ehrenmitglied"}},
	{Name: "member", Schema: "MEMBER", Synonyms: []string{"mitglied", "vereinsmitglied"}},
	{Name: "pastor", Schema: "PASTOR", Synonyms: []string{"pfarrer", "stadtpfarrer"}},
	{Name: "mayor", Schema: "MAYOR", Synonyms: []string{"bürgermeister", "oberbürgermeister"}},
	{Name: "teacher", Schema: "TEACHER", Synonyms: []string{"lehrer", "oberlehrer", "hauptlehrer"}},
	{Name: "singer", Schema: "SINGER", Synonyms: []string{"sänger", "sangesbruder"}},
}

// prefixes may precede a role, as in "1. Vorsitzender" or "der Kassier"
var prefixes = map[string]bool{
	"1": true, "2": true, "3": true, "erster": true, "zweiter": true, "dritter": true,
	"stellv": true, "stellvertretender": true, "der": true, "die": true, "unser": true, "unsere": true,
}

// Vocabulary looks roles up by any normalized synonym
type Vocabulary struct {
	byName map[string]Role
}

// NewVocabulary builds the fixed vocabulary extended with the registry roles
func NewVocabulary(snapshot *registry.Snapshot) *Vocabulary {
	v := &Vocabulary{byName: make(map[string]Role)}
	for _, r := range defaultRoles {
		v.add(r)
	}
	if snapshot != nil {
		for entry := range snapshot.Roles() {
			v.add(Role{Name: entry.Role, Schema: entry.Schema, Synonyms: entry.Synonyms})
		}
	}
	return v
}

func (v *Vocabulary) add(r Role) {
	for _, s := range append([]string{r.Name}, r.Synonyms...) {
		key := normalizers.NormalizeRole(s)
		if _, exists := v.byName[key]; key != "" && !exists {
			v.byName[key] = r
		}
	}
}

// Lookup finds the role a raw string names. Leading ordinals, articles and the
// feminine suffix "-in" are tolerated.
func (v *Vocabulary) Lookup(raw string) (Role, bool) {
	tokens := strings.Fields(normalizers.NormalizeRole(raw))
	for len(tokens) > 1 && prefixes[tokens[0]] {
		tokens = tokens[1:]
	}
	key := strings.Join(tokens, " ")
	if key == "" {
		return Role{}, false
	}
	if r, ok := v.byName[key]; ok {
		return r, true
	}
	if base, found := strings.CutSuffix(key, "in"); found {
		if r, ok := v.byName[base]; ok {
			return r, true
		}
	}
	return Role{}, false
}

// IsRole reports whether raw names a known role
func (v *Vocabulary) IsRole(raw string) bool {
	_, ok := v.Lookup(raw)
	return ok
}
