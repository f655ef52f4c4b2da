package letter

import (
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/roles"
)

// authorScanLimit is the number of non-blank lines read after the closing
const authorScanLimit = 4

// Candidate is one author or recipient found in free text
type Candidate struct {
	Person models.Person
	Rule   string
	Score  float64
	Line   int

	// match is the registry pass result; adopted marks a candidate merged
	// into a person the document already mentions
	match   models.MatchResult[models.Person]
	adopted bool
}

// authorRule recognizes an author on lines[i]
type authorRule struct {
	name   string
	detect func(vocab *roles.Vocabulary, lines []string, i int) (models.Person, bool)
}

// authorRules in precedence order
var authorRules = []authorRule{
	{name: "name-role", detect: detectNameRole},
	{name: "initial-surname", detect: detectInitialSurname},
	{name: "full-name", detect: detectFullName},
	{name: "role-only-then-name", detect: detectRoleThenName},
}

// FindAuthor scans the lines after the last closing phrase and returns the
// first line a rule recognizes. Blank and closing lines are skipped.
func FindAuthor(lines []string, vocab *roles.Vocabulary) (Candidate, bool) {
	start := LastClosing(lines)
	if start < 0 {
		return Candidate{}, false
	}

	seen := 0
	for i := start + 1; i < len(lines) && seen < authorScanLimit; i++ {
		if isBlank(lines[i]) || IsClosing(lines[i]) {
			continue
		}
		seen++
		for _, rule := range authorRules {
			if p, ok := rule.detect(vocab, lines, i); ok {
				return Candidate{Person: p, Rule: rule.name, Score: 100, Line: i}, true
			}
		}
	}
	return Candidate{}, false
}

func detectNameRole(vocab *roles.Vocabulary, lines []string, i int) (models.Person, bool) {
	name, rest, found := strings.Cut(lines[i], ",")
	if !found {
		return models.Person{}, false
	}
	role, ok := vocab.Lookup(rest)
	if !ok {
		return models.Person{}, false
	}
	p, ok := parseName(name, vocab)
	if !ok {
		return models.Person{}, false
	}
	p.Role, p.RoleSchema = role.Name, role.Schema
	return p, true
}

func detectInitialSurname(vocab *roles.Vocabulary, lines []string, i int) (models.Person, bool) {
	tokens := strings.Fields(lines[i])
	if len(tokens) < 2 || !isInitial(tokens[0]) {
		return models.Person{}, false
	}
	return parseName(lines[i], vocab)
}

func detectFullName(vocab *roles.Vocabulary, lines []string, i int) (models.Person, bool) {
	p, ok := parseName(lines[i], vocab)
	if !ok || p.Forename == "" || p.Familyname == "" {
		return models.Person{}, false
	}
	return p, true
}

func detectRoleThenName(vocab *roles.Vocabulary, lines []string, i int) (models.Person, bool) {
	role, ok := vocab.Lookup(lines[i])
	if !ok {
		return models.Person{}, false
	}
	for j := i + 1; j < len(lines); j++ {
		if isBlank(lines[j]) {
			continue
		}
		p, ok := parseName(lines[j], vocab)
		if !ok {
			return models.Person{}, false
		}
		p.Role, p.RoleSchema = role.Name, role.Schema
		return p, true
	}
	return models.Person{}, false
}
