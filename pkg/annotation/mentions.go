package annotation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

// MalformedError describes an annotation that could not be turned into a
// mention. The mention is skipped; the document continues.
type MalformedError struct {
	Line   int    `json:"line"`
	Kind   string `json:"kind"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Reason string `json:"reason"`
}

func (e MalformedError) Error() string {
	return fmt.Sprintf("malformed %s annotation on line %d (offset %d, length %d): %s", e.Kind, e.Line, e.Offset, e.Length, e.Reason)
}

// Line is one source line with its raw annotation string
type Line struct {
	Text   string
	Custom string
}

// ExtractMentions converts the entity annotations of every line into
// mentions. Spans flagged `continued:true` at the end of one line and the
// start of the next are joined into one mention.
func ExtractMentions(lines []Line) ([]models.Mention, []MalformedError) {
	var mentions []models.Mention
	var malformed []MalformedError

	for idx, line := range lines {
		if strings.TrimSpace(line.Custom) == "" {
			continue
		}
		tags, err := ParseCustom(line.Custom)
		if err != nil {
			malformed = append(malformed, MalformedError{Line: idx, Reason: err.Error()})
		}

		runes := []rune(line.Text)
		for _, tag := range tags {
			kind := models.MentionKind(tag.Kind)
			if !kind.IsEntity() {
				continue
			}

			offset, errOff := strconv.Atoi(tag.Attr("offset"))
			length, errLen := strconv.Atoi(tag.Attr("length"))
			if errOff != nil || errLen != nil {
				malformed = append(malformed, MalformedError{Line: idx, Kind: tag.Kind, Reason: "offset and length must be integers"})
				continue
			}
			if offset < 0 || length <= 0 || offset > len(runes) || length > len(runes)-offset {
				malformed = append(malformed, MalformedError{
					Line: idx, Kind: tag.Kind, Offset: offset, Length: length,
					Reason: fmt.Sprintf("span outside line of %d characters", len(runes)),
				})
				continue
			}

			m := models.Mention{
				Kind:       kind,
				Text:       strings.TrimSpace(string(runes[offset : offset+length])),
				Offset:     offset,
				Length:     length,
				Line:       idx,
				LineText:   line.Text,
				Attributes: tag.Attributes,
			}

			if n := len(mentions); n > 0 && continues(mentions[n-1], m) {
				mentions[n-1].Text = joinContinued(mentions[n-1].Text, m.Text)
				continue
			}
			mentions = append(mentions, m)
		}
	}

	return mentions, malformed
}

// continues reports whether m carries on prev across a line break
func continues(prev, m models.Mention) bool {
	if prev.Kind != m.Kind || prev.Attr("continued") != "true" || m.Attr("continued") != "true" {
		return false
	}
	if m.Offset != 0 || prev.Line != m.Line-1 {
		return false
	}
	return prev.End() >= len([]rune(strings.TrimRight(prev.LineText, " ")))
}

func joinContinued(a, b string) string {
	if strings.HasSuffix(a, "-") || strings.HasSuffix(a, "¬") {
		return strings.TrimRight(a, "-¬") + b
	}
	return a + " " + b
}
