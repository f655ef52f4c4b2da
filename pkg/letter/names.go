package letter

import (
	"strings"
	"unicode"

	"github.com/Ramsey-B/sorrel/pkg/annotation"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/normalizers"
	"github.com/Ramsey-B/sorrel/pkg/roles"
)

// maxNameTokens bounds the number of tokens read as one name
const maxNameTokens = 4

// notNames are capitalized words that start lines without naming anyone
var notNames = map[string]bool{
	"der": true, "die": true, "das": true, "den": true, "dem": true, "des": true,
	"ihr": true, "ihre": true, "dein": true, "deine": true, "euer": true, "eure": true,
	"mit": true, "und": true, "in": true, "im": true, "an": true, "am": true, "für": true,
	"herren": true, "damen": true, "freunde": true, "brüder": true, "schwestern": true,
	"sangesbrüder": true, "sangesfreunde": true, "kameraden": true, "mitglieder": true,
	"vereinsmitglieder": true, "alle": true, "gruß": true, "grüße": true, "grüßen": true, "p": true, "ps": true,
}

var nameParticles = map[string]bool{"von": true, "van": true, "zu": true, "vom": true, "de": true}

// parseName reads the leading honorifics and name tokens of s. It fails when
// no name token is found or a token is a role or a non-name word.
func parseName(s string, vocab *roles.Vocabulary) (models.Person, bool) {
	tokens := strings.Fields(strings.Trim(s, " ,;:!"))

	var titles []string
	for len(tokens) > 0 && normalizers.IsHonorific(tokens[0]) {
		titles = append(titles, tokens[0])
		tokens = tokens[1:]
	}

	var names []string
	for _, tok := range tokens {
		word := strings.TrimRight(tok, ",;:!")
		if !isInitial(word) {
			word = strings.TrimRight(word, ".")
		}
		if word == "" || len(names) == maxNameTokens {
			break
		}
		lower := strings.ToLower(strings.Trim(word, "."))
		switch {
		case nameParticles[lower] && len(names) > 0:
		case isCapitalized(word) && !notNames[lower] && !vocab.IsRole(word):
		default:
			return buildName(titles, names)
		}
		names = append(names, word)
		if word != tok {
			break
		}
	}
	return buildName(titles, names)
}

func buildName(titles, names []string) (models.Person, bool) {
	for len(names) > 0 && nameParticles[strings.ToLower(names[len(names)-1])] {
		names = names[:len(names)-1]
	}
	if len(names) == 0 || allInitials(names) {
		return models.Person{}, false
	}
	return annotation.SplitName(strings.Join(append(titles, names...), " ")), true
}

// honorificsOnly returns the honorifics of a line that holds nothing else,
// ignoring a leading "An"
func honorificsOnly(line string) (string, bool) {
	tokens := strings.Fields(strings.Trim(line, " ,;:"))
	if len(tokens) > 0 && tokens[0] == "An" {
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return "", false
	}
	for _, tok := range tokens {
		if !normalizers.IsHonorific(tok) {
			return "", false
		}
	}
	return strings.Join(tokens, " "), true
}

func isInitial(word string) bool {
	r := []rune(word)
	return len(r) == 2 && unicode.IsUpper(r[0]) && r[1] == '.'
}

func allInitials(words []string) bool {
	for _, w := range words {
		if !isInitial(w) {
			return false
		}
	}
	return true
}

func isCapitalized(word string) bool {
	r := []rune(word)
	return len(r) > 0 && unicode.IsUpper(r[0])
}

func isBlank(line string) bool {
	return strings.Trim(line, " \t-–_.,") == ""
}
