package resolver

import (
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/registry"
)

// CollapseCompounds merges two adjacent mentions on one line, such as the
// chorus name "Liederkranz" followed by the town "Stuttgart", into a single
// organization mention when their joined text is a known organization name.
// Only whitespace may separate the two spans.
func CollapseCompounds(mentions []models.Mention, snapshot *registry.Snapshot) []models.Mention {
	out := make([]models.Mention, 0, len(mentions))
	for i := 0; i < len(mentions); i++ {
		m := mentions[i]
		if i+1 < len(mentions) && compoundable(m, mentions[i+1]) {
			next := mentions[i+1]
			joined := m.Text + " " + next.Text
			if _, ok := snapshot.OrganizationByName(joined); ok {
				out = append(out, models.Mention{
					Kind:       models.MentionOrganization,
					Text:       joined,
					Offset:     m.Offset,
					Length:     next.End() - m.Offset,
					Line:       m.Line,
					LineText:   m.LineText,
					Attributes: m.Attributes,
				})
				i++
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

func compoundable(a, b models.Mention) bool {
	if a.Line != b.Line || b.Offset < a.End() {
		return false
	}
	if a.Kind != models.MentionOrganization && b.Kind != models.MentionOrganization {
		return false
	}
	for _, k := range []models.MentionKind{a.Kind, b.Kind} {
		if k != models.MentionOrganization && k != models.MentionPlace {
			return false
		}
	}
	gap := []rune(a.LineText)
	if b.Offset > len(gap) {
		return false
	}
	return strings.TrimSpace(string(gap[a.End():b.Offset])) == ""
}
