package resolver

import (
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/normalizers"
)

// fillerTokens never identify a place or organization on their own
var fillerTokens = map[string]bool{
	"club": true, "office": true, "verein": true, "gasthaus": true, "gasthof": true,
	"wirtschaft": true, "lokal": true, "saal": true, "büro": true, "buero": true,
	"the": true, "der": true, "die": true, "das": true, "des": true, "dem": true, "den": true,
	"in": true, "im": true, "bei": true, "zu": true, "zum": true, "zur": true,
	"nach": true, "aus": true, "an": true, "am": true, "auf": true,
}

// IsFiller reports whether the normalized token is a blacklisted filler token
func IsFiller(token string) bool {
	return fillerTokens[token]
}

// Preclean normalizes a place or organization mention for scoring: brackets,
// colons and punctuation are stripped and filler tokens removed.
func Preclean(s string) string {
	tokens := strings.Fields(normalizers.NormalizePlace(s))
	kept := tokens[:0]
	for _, tok := range tokens {
		if !fillerTokens[tok] {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// Display strips brackets, colons and edge punctuation while keeping case
func Display(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', '[', ']', '{', '}', ':', '"', '„', '“', '”':
			return ' '
		}
		return r
	}, s)
	return strings.Trim(strings.Join(strings.Fields(s), " "), " ,.;")
}
