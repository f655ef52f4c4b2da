package dates

import (
	"strings"
	"unicode"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

// continuationWords start a line that carries on the previous one
var continuationWords = map[string]bool{
	"und": true, "sowie": true, "wobei": true,
	"dann": true, "danach": true, "anschließend": true, "anschliessend": true,
	"hierauf": true, "ferner": true, "ebenso": true, "außerdem": true, "ausserdem": true,
	"wo": true, "worauf": true, "welche": true, "welcher": true, "woran": true,
}

// stopwords are capitalized tokens that never name a place
var stopwords = map[string]bool{
	"der": true, "die": true, "das": true, "den": true, "dem": true, "des": true,
	"ein": true, "eine": true, "einen": true, "und": true, "am": true, "im": true,
	"an": true, "in": true, "auf": true, "bei": true, "mit": true, "nach": true,
	"von": true, "zu": true, "zum": true, "zur": true, "es": true, "wir": true,
	"sie": true, "er": true, "ich": true, "ihr": true, "unser": true, "unsere": true,
	"herr": true, "herrn": true, "frau": true, "verein": true, "versammlung": true,
	"sonntag": true, "montag": true, "dienstag": true, "mittwoch": true,
	"donnerstag": true, "freitag": true, "samstag": true, "sonnabend": true,
}

// Block is a closed run of contiguous event lines
type Block struct {
	Start int
	End   int
	Lines []string
	// Dates holds the date mentions within the block in order
	Dates []models.Mention
}

// Text joins the block lines, rejoining hyphenated words
func (b Block) Text() string {
	var sb strings.Builder
	for i, line := range b.Lines {
		line = strings.TrimSpace(line)
		if i > 0 && !endsHyphenated(b.Lines[i-1]) {
			sb.WriteByte(' ')
		}
		if i < len(b.Lines)-1 && endsHyphenated(line) {
			line = strings.TrimRight(line, "-¬")
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// Linker attaches persons, places and organizations to an event block
type Linker interface {
	Link(b Block) ([]models.Person, []models.Place, []models.Organization)
}

// Blocks groups the lines carrying event mentions, plus their continuation
// lines, into blocks
func Blocks(lines []string, mentions []models.Mention) []Block {
	events := make(map[int]bool)
	dated := make(map[int][]models.Mention)
	for _, m := range mentions {
		switch m.Kind {
		case models.MentionEvent:
			events[m.Line] = true
		case models.MentionDate:
			dated[m.Line] = append(dated[m.Line], m)
		}
	}

	var blocks []Block
	var cur *Block
	closeBlock := func() {
		if cur != nil {
			blocks = append(blocks, *cur)
			cur = nil
		}
	}

	for i, line := range lines {
		if cur != nil && isContinuation(lines[i-1], line, len(dated[i]) > 0) {
			cur.End = i
			cur.Lines = append(cur.Lines, line)
			cur.Dates = append(cur.Dates, dated[i]...)
			continue
		}
		closeBlock()
		if events[i] {
			cur = &Block{Start: i, End: i, Lines: []string{line}, Dates: append([]models.Mention(nil), dated[i]...)}
		}
	}
	closeBlock()
	return blocks
}

// isContinuation applies the continuation rules to line following prev
func isContinuation(prev, line string, hasDate bool) bool {
	text := strings.TrimSpace(line)
	if text == "" {
		return false
	}
	if endsHyphenated(prev) {
		return true
	}
	first := []rune(text)[0]
	if unicode.IsLower(first) {
		return true
	}
	if hasDate {
		return false
	}
	if _, ok := InlineDayMonth(text, ""); ok {
		return false
	}
	word := strings.ToLower(strings.Trim(strings.Fields(text)[0], ",.;:"))
	return continuationWords[word]
}

func endsHyphenated(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasSuffix(line, "-") || strings.HasSuffix(line, "¬")
}

// BuildEvents turns the event blocks of a document into events. The date
// is the first date mention of the block, else an inline day and month
// completed with year when known.
func BuildEvents(lines []string, mentions []models.Mention, linker Linker, year string) []models.Event {
	blocks := Blocks(lines, mentions)
	events := make([]models.Event, 0, len(blocks))
	for _, b := range blocks {
		text := b.Text()
		ev := models.Event{
			Name:          strings.TrimSpace(b.Lines[0]),
			Description:   text,
			StartLine:     b.Start,
			EndLine:       b.End,
			Persons:       []models.Person{},
			Places:        []models.Place{},
			Organizations: []models.Organization{},
		}

		for _, m := range b.Dates {
			if rec, err := FromMention(m); err == nil {
				ev.Date = rec.Date
				break
			}
		}
		if ev.Date == "" {
			ev.Date, _ = InlineDayMonth(text, year)
		}

		if linker != nil {
			persons, places, orgs := linker.Link(b)
			ev.Persons = append(ev.Persons, persons...)
			ev.Places = append(ev.Places, places...)
			ev.Organizations = append(ev.Organizations, orgs...)
		}
		events = append(events, ev)
	}
	return events
}

// CapitalizedTokens returns the capitalized, non-stopword tokens of text in
// order, without duplicates
func CapitalizedTokens(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(text) {
		tok = strings.Trim(tok, ".,;:!?()[]\"„“”'")
		r := []rune(tok)
		if len(r) < 2 || !unicode.IsUpper(r[0]) || stopwords[strings.ToLower(tok)] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}
