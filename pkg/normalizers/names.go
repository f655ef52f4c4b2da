package normalizers

import "strings"

// NameParts is the result of parsing a raw person name
type NameParts struct {
	Normalized string `json:"normalized"`
	Title      string `json:"title"`
}

var honorifics = map[string]bool{
	"herr": true, "herrn": true, "hr": true, "frau": true, "fr": true,
	"fräulein": true, "fraulein": true, "frl": true,
	"dr": true, "prof": true, "professor": true,
	"dipl": true, "ing": true,
	"mr": true, "mrs": true, "ms": true, "miss": true, "sir": true,
}

// nicknames maps whole normalized forms to their canonical given name
var nicknames = map[string]string{
	"hansi":   "hans",
	"fritz":   "friedrich",
	"fritzl":  "friedrich",
	"sepp":    "josef",
	"seppl":   "josef",
	"willi":   "wilhelm",
	"willy":   "wilhelm",
	"gretel":  "margarete",
	"grete":   "margarete",
	"liesel":  "elisabeth",
	"lisbeth": "elisabeth",
	"käthe":   "katharina",
	"kathe":   "katharina",
	"heini":   "heinrich",
	"toni":    "anton",
	"resi":    "theresia",
	"franzl":  "franz",
	"carl":    "karl",
	"gust":    "gustav",
	"gustl":   "gustav",
	"ernstl":  "ernst",
	"mariele": "maria",
	"mia":     "maria",
}

// IsHonorific reports whether a single token is a title or form of address
func IsHonorific(token string) bool {
	return honorifics[clean(strings.ToLower(token))]
}

// ParseName lowercases the raw name, strips leading titles into Title,
// removes punctuation and folds a whole-form nickname to its canonical form.
// Empty in, empty out.
func ParseName(raw string) NameParts {
	tokens := strings.Fields(clean(strings.ToLower(raw)))
	if len(tokens) == 0 {
		return NameParts{}
	}

	var titles []string
	i := 0
	for i < len(tokens) && honorifics[tokens[i]] {
		titles = append(titles, tokens[i])
		i++
	}

	normalized := strings.Join(tokens[i:], " ")
	if canonical, ok := nicknames[normalized]; ok {
		normalized = canonical
	}

	return NameParts{
		Normalized: normalized,
		Title:      strings.Join(titles, " "),
	}
}

// Canonical returns the nickname-folded form of a single normalized token
func Canonical(token string) string {
	if canonical, ok := nicknames[token]; ok {
		return canonical
	}
	return token
}
