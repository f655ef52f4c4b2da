package normalizers

import "strings"

// MaxVariants caps the number of variants produced for one string
const MaxVariants = 10

type fold struct {
	from, to string
}

// folds are applied in order; earlier folds are the more common OCR and
// period-spelling confusions
var folds = []fold{
	{"ü", "ue"}, {"ö", "oe"}, {"ä", "ae"}, {"ß", "ss"}, {"ſ", "s"},
	{"ue", "ü"}, {"oe", "ö"}, {"ae", "ä"},
	{"ü", "u"}, {"ö", "o"}, {"ä", "a"},
	{"ii", "ü"}, {"rn", "m"}, {"m", "rn"},
}

// Variants returns s followed by OCR-confusable spellings of it. The result
// is deterministic, deduplicated and never longer than MaxVariants.
func Variants(s string) []string {
	if s == "" {
		return nil
	}

	out := []string{s}
	seen := map[string]bool{s: true}
	for _, f := range folds {
		n := len(out)
		for i := 0; i < n; i++ {
			if !strings.Contains(out[i], f.from) {
				continue
			}
			v := strings.ReplaceAll(out[i], f.from, f.to)
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
			if len(out) == MaxVariants {
				return out
			}
		}
	}
	return out
}
