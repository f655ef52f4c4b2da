package roles

import (
	"context"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sorrel/pkg/annotation"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// inlineWindow is the number of tokens before a name searched for a role
const inlineWindow = 3

// Context is what a rule sees for one person mention
type Context struct {
	Mention models.Mention
	// Lines holds the text of every document line
	Lines []string
}

// Rule detects a role for one person mention
type Rule struct {
	Name   string
	Detect func(v *Vocabulary, c Context) (Role, bool)
}

// Rules returns the detection rules in precedence order
func Rules() []Rule {
	return []Rule{
		{Name: "annotated", Detect: detectAnnotated},
		{Name: "inline", Detect: detectInline},
		{Name: "next-line", Detect: detectNextLine},
	}
}

// Assigner attaches detected roles to resolved persons
type Assigner struct {
	logger ectologger.Logger
	vocab  *Vocabulary
	rules  []Rule
}

// NewAssigner creates an assigner over vocab
func NewAssigner(logger ectologger.Logger, vocab *Vocabulary) *Assigner {
	return &Assigner{logger: logger, vocab: vocab, rules: Rules()}
}

// Vocabulary returns the vocabulary used by the assigner
func (a *Assigner) Vocabulary() *Vocabulary {
	return a.vocab
}

// Assign runs the rules for every person mention; assignments[i] is the index
// into persons of mentions[i]. A role is only set on a person that has none,
// so the first detected role wins. The returned slice is a copy.
func (a *Assigner) Assign(ctx context.Context, persons []models.Person, assignments []int, mentions []models.Mention, lines []string) []models.Person {
	ctx, span := tracing.StartSpan(ctx, "roles.Assigner.Assign")
	defer span.End()

	out := append([]models.Person(nil), persons...)
	for i, m := range mentions {
		if i >= len(assignments) {
			break
		}
		j := assignments[i]
		if j < 0 || j >= len(out) || out[j].Role != "" {
			continue
		}

		for _, rule := range a.rules {
			role, ok := rule.Detect(a.vocab, Context{Mention: m, Lines: lines})
			if !ok {
				continue
			}
			out[j].Role, out[j].RoleSchema = role.Name, role.Schema
			a.logger.WithContext(ctx).WithFields(map[string]any{
				"rule":   rule.Name,
				"role":   role.Name,
				"person": out[j].FullName(),
				"line":   m.Line,
			}).Debug("Role assigned")
			break
		}
	}
	return out
}

func detectAnnotated(v *Vocabulary, c Context) (Role, bool) {
	raw := c.Mention.Attr("role")
	if raw == "" {
		return Role{}, false
	}
	if r, ok := v.Lookup(raw); ok {
		return r, true
	}
	// an unknown annotated role is kept verbatim without a schema code
	return Role{Name: strings.TrimSpace(raw)}, true
}

func detectInline(v *Vocabulary, c Context) (Role, bool) {
	runes := []rune(c.Mention.LineText)
	if c.Mention.Offset > len(runes) || c.Mention.End() > len(runes) {
		return Role{}, false
	}

	before := strings.Fields(string(runes[:c.Mention.Offset]))
	for n := 0; n < inlineWindow && n < len(before); n++ {
		idx := len(before) - 1 - n
		if r, ok := v.Lookup(before[idx]); ok {
			return r, true
		}
		if idx > 0 {
			if r, ok := v.Lookup(before[idx-1] + " " + before[idx]); ok {
				return r, true
			}
		}
	}

	after := strings.TrimSpace(string(runes[c.Mention.End():]))
	if rest, ok := strings.CutPrefix(after, ","); ok {
		tokens := strings.Fields(rest)
		for n := 0; n < inlineWindow && n < len(tokens); n++ {
			if r, ok := v.Lookup(tokens[n]); ok {
				return r, true
			}
			if n+1 < len(tokens) {
				if r, ok := v.Lookup(tokens[n] + " " + tokens[n+1]); ok {
					return r, true
				}
			}
		}
	}
	return Role{}, false
}

func detectNextLine(v *Vocabulary, c Context) (Role, bool) {
	prev := c.Mention.Line - 1
	if prev < 0 || prev >= len(c.Lines) {
		return Role{}, false
	}
	return v.Lookup(strings.Trim(c.Lines[prev], " ,.:;"))
}

// Correct repairs persons whose name and role were captured the wrong way
// round: a name that is a known role moves into Role, a role that is not a
// role but a name moves into the name fields and both together are swapped.
// Known roles are canonicalized with their schema code.
func (a *Assigner) Correct(persons []models.Person) []models.Person {
	out := make([]models.Person, len(persons))
	for i, p := range persons {
		out[i] = a.correct(p)
	}
	return out
}

func (a *Assigner) correct(p models.Person) models.Person {
	nameRole, nameIsRole := a.vocab.Lookup(p.FullName())
	role, roleIsRole := a.vocab.Lookup(p.Role)
	roleIsName := p.Role != "" && !roleIsRole && looksLikeName(p.Role)

	switch {
	case nameIsRole && roleIsName:
		swapped := annotation.SplitName(p.Role)
		p.Forename, p.Familyname = swapped.Forename, swapped.Familyname
		p.Role, p.RoleSchema = nameRole.Name, nameRole.Schema
	case nameIsRole && p.Role == "":
		p.Forename, p.Familyname = "", ""
		p.Role, p.RoleSchema = nameRole.Name, nameRole.Schema
	case nameIsRole && roleIsRole:
		// the role already set wins, the name fields only held a role
		p.Forename, p.Familyname = "", ""
		p.Role, p.RoleSchema = role.Name, role.Schema
	case roleIsName && !p.HasName():
		moved := annotation.SplitName(p.Role)
		p.Forename, p.Familyname = moved.Forename, moved.Familyname
		p.Role, p.RoleSchema = "", ""
	case roleIsRole:
		p.Role, p.RoleSchema = role.Name, role.Schema
	}
	return p
}

// looksLikeName accepts one to three capitalized alphabetic tokens
func looksLikeName(s string) bool {
	tokens := strings.Fields(s)
	if len(tokens) == 0 || len(tokens) > 3 {
		return false
	}
	for _, tok := range tokens {
		r := []rune(strings.Trim(tok, ".,"))
		if len(r) == 0 || !isUpper(r[0]) {
			return false
		}
	}
	return true
}

func isUpper(r rune) bool {
	return strings.ToUpper(string(r)) == string(r) && strings.ToLower(string(r)) != string(r)
}
