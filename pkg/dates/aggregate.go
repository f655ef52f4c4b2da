package dates

import (
	"github.com/Ramsey-B/sorrel/pkg/models"
)

// Invalid is a date mention that could not be normalized
type Invalid struct {
	Mention models.Mention
	Err     error
}

// FromMention normalizes a date mention through its `when` attribute,
// falling back to the annotated text
func FromMention(m models.Mention) (models.DateRecord, error) {
	if when := m.Attr("when"); when != "" {
		return ParseWhen(when)
	}
	return ParseWhen(m.Text)
}

// Aggregate normalizes every date mention and collapses identical dates into
// one record with an occurrence count. Records keep first-seen order.
func Aggregate(mentions []models.Mention) ([]models.DateRecord, []Invalid) {
	out := []models.DateRecord{}
	var invalid []Invalid
	index := make(map[string]int)

	for _, m := range mentions {
		if m.Kind != models.MentionDate {
			continue
		}
		rec, err := FromMention(m)
		if err != nil {
			invalid = append(invalid, Invalid{Mention: m, Err: err})
			continue
		}
		if i, ok := index[rec.Key()]; ok {
			out[i].Count++
			continue
		}
		index[rec.Key()] = len(out)
		out = append(out, rec)
	}
	return out, invalid
}
