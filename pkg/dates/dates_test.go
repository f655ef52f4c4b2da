package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

func TestParseWhen(t *testing.T) {
	tests := []struct {
		in   string
		date string
		dmy  string
		to   string
	}{
		{"28.05.1942", "1942.05.28", "28.05.1942", ""},
		{"3.5.1942", "1942.05.03", "03.05.1942", ""},
		{"1942-05-28", "1942.05.28", "28.05.1942", ""},
		{"1942-05", "1942.05", "05.1942", ""},
		{"05.1942", "1942.05", "05.1942", ""},
		{"1942", "1942", "1942", ""},
		{"1942.05.28", "1942.05.28", "28.05.1942", ""},
		{"03/04.05.1942", "1942.05.03", "03/04.05.1942", "1942.05.04"},
		{" 28.5.1942 ", "1942.05.28", "28.05.1942", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			rec, err := ParseWhen(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.date, rec.Date)
			assert.Equal(t, tt.dmy, rec.DayMonthYear)
			assert.Equal(t, tt.to, rec.To)
			assert.Equal(t, 1, rec.Count)
		})
	}

	for _, bad := range []string{"", "31.02.1942", "13.1942", "gestern", "05/03.05.1942", "1942-13-01"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseWhen(bad)
			assert.Error(t, err)
		})
	}

	t.Run("leap day", func(t *testing.T) {
		_, err := ParseWhen("29.02.1940")
		assert.NoError(t, err)
		_, err = ParseWhen("29.02.1941")
		assert.Error(t, err)
	})
}

func TestAggregate(t *testing.T) {
	date := func(line int, when string) models.Mention {
		return models.Mention{Kind: models.MentionDate, Line: line, Text: "28. Mai", Attributes: map[string]string{"when": when}}
	}

	mentions := []models.Mention{
		date(0, "28.05.1942"),
		{Kind: models.MentionPerson, Text: "Otto"},
		date(1, "1.6.1942"),
		date(2, "28.05.1942"),
		date(3, "1942-05-28"),
		date(4, "99.99.1942"),
		{Kind: models.MentionDate, Line: 5, Text: "1943"},
	}

	records, invalid := Aggregate(mentions)
	require.Len(t, records, 3)
	assert.Equal(t, models.DateRecord{Date: "1942.05.28", DayMonthYear: "28.05.1942", Count: 3}, records[0])
	assert.Equal(t, "1942.06.01", records[1].Date)
	assert.Equal(t, 1, records[1].Count)
	assert.Equal(t, "1943", records[2].Date)
	require.Len(t, invalid, 1)
	assert.Equal(t, 4, invalid[0].Mention.Line)

	empty, _ := Aggregate(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestHeadingDate(t *testing.T) {
	t.Run("german month name", func(t *testing.T) {
		h, ok := HeadingDate([]string{"Liederkranz Stuttgart", "Stuttgart, den 28. Mai 1942", "Lieber Otto!"})
		require.True(t, ok)
		assert.Equal(t, "Stuttgart", h.Place)
		assert.Equal(t, "1942.05.28", h.Date.Date)
		assert.Equal(t, 1, h.Line)
	})

	t.Run("numeric", func(t *testing.T) {
		h, ok := HeadingDate([]string{"Esslingen a.N., 3.5.1942"})
		require.True(t, ok)
		assert.Equal(t, "Esslingen a.N.", h.Place)
		assert.Equal(t, "1942.05.03", h.Date.Date)
	})

	t.Run("none", func(t *testing.T) {
		_, ok := HeadingDate([]string{"Lieber Otto!", "Stuttgart, den 31. Februar 1942"})
		assert.False(t, ok)
	})
}

func TestInlineDayMonth(t *testing.T) {
	d, ok := InlineDayMonth("Das Konzert am 14. Juni war gut", "1942")
	require.True(t, ok)
	assert.Equal(t, "1942.06.14", d)

	d, ok = InlineDayMonth("Probe am 3.7. im Saal", "")
	require.True(t, ok)
	assert.Equal(t, "03.07.", d)

	_, ok = InlineDayMonth("Im Jahr 1942. Es war kalt", "")
	assert.False(t, ok)
}

type stubLinker struct{}

func (stubLinker) Link(b Block) ([]models.Person, []models.Place, []models.Organization) {
	var places []models.Place
	for _, tok := range CapitalizedTokens(b.Text()) {
		if tok == "Esslingen" {
			places = append(places, models.Place{Name: tok})
		}
	}
	return nil, places, nil
}

func TestBuildEvents(t *testing.T) {
	lines := []string{
		"Lieber Otto!",
		"Das Sängerfest in Esslingen findet",
		"am 14. Juni statt, wobei der Gesang-",
		"verein mitwirkt.",
		"Und die Probe ist im Saal.",
		"Die Jahresversammlung am 3. Juli.",
		"Kassier Bollinger berichtet.",
	}
	mentions := []models.Mention{
		{Kind: models.MentionEvent, Line: 1, Text: "Sängerfest"},
		{Kind: models.MentionEvent, Line: 5, Text: "Jahresversammlung"},
		{Kind: models.MentionDate, Line: 5, Text: "3. Juli", Attributes: map[string]string{"when": "03.07.1942"}},
	}

	events := BuildEvents(lines, mentions, stubLinker{}, "1942")
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "Das Sängerfest in Esslingen findet", first.Name)
	assert.Equal(t, 1, first.StartLine)
	assert.Equal(t, 4, first.EndLine)
	assert.Equal(t, "Das Sängerfest in Esslingen findet am 14. Juni statt, wobei der Gesangverein mitwirkt. Und die Probe ist im Saal.", first.Description)
	assert.Equal(t, "1942.06.14", first.Date)
	require.Len(t, first.Places, 1)
	assert.Equal(t, "Esslingen", first.Places[0].Name)
	assert.NotNil(t, first.Persons)

	second := events[1]
	assert.Equal(t, 5, second.StartLine)
	assert.Equal(t, 5, second.EndLine)
	assert.Equal(t, "1942.07.03", second.Date)
}

func TestCapitalizedTokens(t *testing.T) {
	assert.Equal(t, []string{"Sängerfest", "Esslingen"}, CapitalizedTokens("Das Sängerfest in Esslingen, Esslingen am Sonntag."))
}

func TestIsContinuation(t *testing.T) {
	tests := []struct {
		name    string
		prev    string
		line    string
		hasDate bool
		want    bool
	}{
		{"hyphenated previous line", "der Gesang-", "Verein", false, true},
		{"lowercase start", "Das Fest", "fand statt", false, true},
		{"function word without date", "Das Fest", "Und danach", false, true},
		{"function word with date mention", "Das Fest", "Und am 3.7. die Probe", true, false},
		{"function word with inline date", "Das Fest", "Und am 3. Juli die Probe", false, false},
		{"new sentence", "Das Fest.", "Kassier Bollinger berichtet", false, false},
		{"blank", "Das Fest", "  ", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isContinuation(tt.prev, tt.line, tt.hasDate))
		})
	}
}
