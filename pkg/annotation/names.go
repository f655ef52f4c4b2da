package annotation

import (
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/normalizers"
)

// particles join the following token into the family name
var particles = map[string]bool{"von": true, "van": true, "zu": true, "vom": true, "de": true}

// SplitPersonName builds a person record from a person mention. Explicit
// firstname/lastname attributes win; otherwise leading honorifics become the
// title, a single remaining token is the family name and the last token
// (with any nobiliary particle) is the family name of a longer span.
func SplitPersonName(m models.Mention) models.Person {
	p := models.Person{MentionCount: 1, AlternateName: m.Attr("alternateName")}

	first, last := m.Attr("firstname"), m.Attr("lastname")
	if first != "" || last != "" {
		p.Forename, p.Familyname = first, last
		p.Title = titleOf(strings.Fields(m.Text))
		return p
	}

	return splitName(m.Text, p)
}

// SplitName splits free text such as "Herrn Otto Bollinger" into a person
func SplitName(text string) models.Person {
	return splitName(text, models.Person{MentionCount: 1})
}

func splitName(text string, p models.Person) models.Person {
	tokens := strings.Fields(strings.Trim(text, " ,;:"))
	var titles []string
	for len(tokens) > 0 && normalizers.IsHonorific(tokens[0]) {
		titles = append(titles, tokens[0])
		tokens = tokens[1:]
	}
	p.Title = strings.Join(titles, " ")
	for i := range tokens {
		tokens[i] = strings.Trim(tokens[i], ",;:")
	}

	switch len(tokens) {
	case 0:
	case 1:
		p.Familyname = tokens[0]
	default:
		cut := len(tokens) - 1
		for cut > 1 && particles[strings.ToLower(tokens[cut-1])] {
			cut--
		}
		p.Forename = strings.Join(tokens[:cut], " ")
		p.Familyname = strings.Join(tokens[cut:], " ")
	}
	return p
}

func titleOf(tokens []string) string {
	var titles []string
	for _, tok := range tokens {
		if !normalizers.IsHonorific(tok) {
			break
		}
		titles = append(titles, tok)
	}
	return strings.Join(titles, " ")
}

// Structural returns "author" or "recipient" when the mention carries a
// structural type marker
func Structural(m models.Mention) string {
	switch strings.ToLower(m.Attr("type")) {
	case "author", "sender":
		return "author"
	case "recipient", "addressee":
		return "recipient"
	}
	return ""
}
