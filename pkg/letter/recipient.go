package letter

import (
	"regexp"
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/roles"
)

// Recipient rule names and their structural confidence
const (
	RuleHeaderInline    = "header-inline"
	RuleHeader3Line     = "header-3line"
	RuleHeader2Line     = "header-2line"
	RuleDirectAddress   = "direct-address"
	RuleIndirectAddress = "indirect-address"
)

// RuleScores maps each recipient rule to its score
var RuleScores = map[string]float64{
	RuleHeaderInline:    90,
	RuleHeader3Line:     80,
	RuleHeader2Line:     70,
	RuleDirectAddress:   100,
	RuleIndirectAddress: 70,
}

// headerLimit is the number of lines searched for an address block when no
// salutation ends the header earlier
const headerLimit = 12

var (
	salutationRe = regexp.MustCompile(`^(?i:(?:sehr\s+)?(?:hoch)?(?:verehrte|geehrte|werte|liebe|teure)[rsn]?|meine?\s+liebe[rn]?)\s+(.+)$`)
	indirectRe   = regexp.MustCompile(`(?i:z\.\s*hd\.?|z\.\s*händen|zu\s+händen(?:\s+von)?|c/o|p\.\s*adr\.?|per\s+adresse)\s+(.+)$`)
	inlineRe     = regexp.MustCompile(`^An\s+(.+)$`)
)

// FindRecipients applies the header rules to the address block and the
// address rules to the whole document. Candidates come back in line order.
func FindRecipients(lines []string, vocab *roles.Vocabulary) []Candidate {
	header := headerEnd(lines)
	candidates := headerCandidates(lines[:header], vocab)

	for i, line := range lines {
		text := strings.TrimSpace(line)
		if m := salutationRe.FindStringSubmatch(text); m != nil {
			if p, ok := parseName(m[1], vocab); ok {
				candidates = append(candidates, candidate(p, RuleDirectAddress, i))
			}
		}
		if m := indirectRe.FindStringSubmatch(text); m != nil {
			if p, ok := parseName(m[1], vocab); ok {
				candidates = append(candidates, candidate(p, RuleIndirectAddress, i))
			}
		}
	}
	return candidates
}

// headerEnd is the index of the first salutation line, capped at headerLimit
func headerEnd(lines []string) int {
	end := min(len(lines), headerLimit)
	for i := 0; i < end; i++ {
		if salutationRe.MatchString(strings.TrimSpace(lines[i])) {
			return i
		}
	}
	return end
}

func headerCandidates(lines []string, vocab *roles.Vocabulary) []Candidate {
	var out []Candidate
	for i := 0; i < len(lines); i++ {
		text := strings.TrimSpace(lines[i])
		if text == "" {
			continue
		}

		// "An" / honorific / name
		if strings.Trim(text, ":,") == "An" && i+2 < len(lines) {
			if title, ok := honorificsOnly(lines[i+1]); ok {
				if p, ok := parseName(title+" "+lines[i+2], vocab); ok {
					out = append(out, candidate(p, RuleHeader3Line, i+2))
					i += 2
					continue
				}
			}
		}

		// honorific or "An" alone, name on the next line
		if i+1 < len(lines) {
			title, ok := honorificsOnly(text)
			if !ok && strings.Trim(text, ":,") == "An" {
				title, ok = "", true
			}
			if ok {
				if p, found := parseName(strings.TrimSpace(title+" "+lines[i+1]), vocab); found {
					out = append(out, candidate(p, RuleHeader2Line, i+1))
					i++
					continue
				}
			}
		}

		if m := inlineRe.FindStringSubmatch(text); m != nil {
			if p, ok := parseName(m[1], vocab); ok {
				out = append(out, candidate(p, RuleHeaderInline, i))
			}
		}
	}
	return out
}

func candidate(p models.Person, rule string, line int) Candidate {
	p.RecipientScore = RuleScores[rule]
	return Candidate{Person: p, Rule: rule, Score: RuleScores[rule], Line: line}
}
