package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonMerge(t *testing.T) {
	t.Run("non-empty wins", func(t *testing.T) {
		a := Person{Forename: "Otto", MentionCount: 1}
		b := Person{Familyname: "Bollinger", Role: "treasurer", RoleSchema: "TREASURER", MentionCount: 1}

		merged, conflicts := a.Merge(b)
		assert.Empty(t, conflicts)
		assert.Equal(t, "Otto", merged.Forename)
		assert.Equal(t, "Bollinger", merged.Familyname)
		assert.Equal(t, "treasurer", merged.Role)
		assert.Equal(t, "TREASURER", merged.RoleSchema)
		assert.Equal(t, 2, merged.MentionCount)
	})

	t.Run("longer wins", func(t *testing.T) {
		a := Person{Forename: "O", Familyname: "Bollinger"}
		b := Person{Forename: "Otto", Familyname: "Bollinger"}

		ab, _ := a.Merge(b)
		ba, _ := b.Merge(a)
		assert.Equal(t, "Otto", ab.Forename)
		assert.Equal(t, ab.Forename, ba.Forename)
		assert.Equal(t, ab.Familyname, ba.Familyname)
	})

	t.Run("equal length keeps first seen", func(t *testing.T) {
		a := Person{Familyname: "Maier"}
		b := Person{Familyname: "Meier"}

		ab, _ := a.Merge(b)
		ba, _ := b.Merge(a)
		assert.Equal(t, "Maier", ab.Familyname)
		assert.Equal(t, "Meier", ba.Familyname)
	})

	t.Run("alternate names never merged", func(t *testing.T) {
		a := Person{Familyname: "Bollinger", AlternateName: "der Alte"}
		b := Person{Familyname: "Bollinger", AlternateName: "der Junge"}

		merged, conflicts := a.Merge(b)
		assert.Equal(t, "der Alte", merged.AlternateName)
		require.Len(t, conflicts, 1)
		assert.Equal(t, "alternate_name", conflicts[0].Field)
		assert.Equal(t, "person", conflicts[0].Entity)
		assert.Equal(t, []string{"der Alte", "der Junge"}, conflicts[0].Values)
	})

	t.Run("first role wins", func(t *testing.T) {
		a := Person{Familyname: "Bollinger", Role: "chairman", RoleSchema: "CHAIR"}
		b := Person{Familyname: "Bollinger", Role: "treasurer", RoleSchema: "TREASURER"}

		merged, _ := a.Merge(b)
		assert.Equal(t, "chairman", merged.Role)
		assert.Equal(t, "CHAIR", merged.RoleSchema)
	})

	t.Run("best confidence and score kept", func(t *testing.T) {
		a := Person{Familyname: "Bollinger", MatchScore: 88, Confidence: ConfidenceFuzzy}
		b := Person{Familyname: "Bollinger", MatchScore: 100, Confidence: ConfidenceExact}

		merged, _ := a.Merge(b)
		assert.Equal(t, 100.0, merged.MatchScore)
		assert.Equal(t, ConfidenceExact, merged.Confidence)
	})
}

func TestPersonFill(t *testing.T) {
	registry := Person{Forename: "Otto", Familyname: "Bollinger", RegistryID: "P-17"}
	mention := Person{Forename: "Ottokar", Role: "conductor", RoleSchema: "CONDUCTOR", MentionCount: 1}

	filled := registry.Fill(mention)
	assert.Equal(t, "Otto", filled.Forename)
	assert.Equal(t, "conductor", filled.Role)
	assert.Equal(t, "P-17", filled.RegistryID)
	assert.Equal(t, 1, filled.MentionCount)
}

func TestPersonIdentity(t *testing.T) {
	assert.Equal(t, "id:P-1", Person{Forename: "Otto", RegistryID: "P-1"}.IdentityKey())
	assert.Equal(t,
		Person{Forename: "Herr Otto", Familyname: "Bollinger"}.IdentityKey(),
		Person{Forename: "otto", Familyname: "BOLLINGER"}.IdentityKey())

	p := Person{Forename: "Otto", Familyname: "Bollinger"}
	assert.Equal(t, Person{Forename: "Bollinger", Familyname: "Otto"}, p.Swapped())
	assert.True(t, p.HasName())
	assert.False(t, Person{Role: "treasurer"}.HasName())
	assert.Equal(t, "Otto Bollinger", p.FullName())
	assert.Equal(t, "Bollinger", Person{Familyname: "Bollinger"}.FullName())
}

func TestPlaceMerge(t *testing.T) {
	a := Place{Name: "Stuttgart", AlternateNames: []string{"Stuttgardt"}, MentionCount: 1}
	b := Place{Name: "Stuttgart", GeonamesID: "2825297", AlternateNames: []string{"stuttgardt", "Schduagert"}, MentionCount: 2}

	merged, conflicts := a.Merge(b)
	assert.Empty(t, conflicts)
	assert.Equal(t, "2825297", merged.GeonamesID)
	assert.Equal(t, []string{"Stuttgardt", "Schduagert"}, merged.AlternateNames)
	assert.Equal(t, 3, merged.MentionCount)

	_, conflicts = Place{Name: "Esslingen", RegistryID: "L-1"}.Merge(Place{Name: "Esslingen", RegistryID: "L-2"})
	require.Len(t, conflicts, 1)
	assert.Equal(t, "registry_id", conflicts[0].Field)
	assert.Equal(t, "L-1", conflicts[0].ResolvedValue)
}

func TestOrganizationMerge(t *testing.T) {
	a := Organization{Name: "Liederkranz", MentionCount: 1}
	b := Organization{Name: "Liederkranz Stuttgart", Place: "Stuttgart", MentionCount: 1}

	merged, conflicts := a.Merge(b)
	assert.Empty(t, conflicts)
	assert.Equal(t, "Liederkranz Stuttgart", merged.Name)
	assert.Equal(t, "Stuttgart", merged.Place)
	assert.Equal(t, 2, merged.MentionCount)
	assert.Equal(t, "name:liederkranz stuttgart", merged.IdentityKey())
}

func TestMergeString(t *testing.T) {
	v, c := MergeString("f", "", "x", MergeStrategyNoOverwrite)
	assert.Equal(t, "x", v)
	assert.Nil(t, c)

	v, c = MergeString("f", "abc", "abcd", MergeStrategyLongestValue)
	assert.Equal(t, "abcd", v)
	require.NotNil(t, c)
	assert.Equal(t, "abcd", c.ResolvedValue)

	v, c = MergeString("f", "abc", "abd", MergeStrategyFirstValue)
	assert.Equal(t, "abc", v)
	require.NotNil(t, c)

	v, c = MergeString("f", "Otto", "otto", MergeStrategyLongestValue)
	assert.Equal(t, "Otto", v)
	assert.Nil(t, c)
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := NewDocument()
	doc.Attributes["id"] = "doc-1"
	doc.Authors = []Person{{Forename: "Otto", Familyname: "Bollinger", MatchScore: 100, Confidence: ConfidenceExact, MentionCount: 2}}
	doc.Recipients = []Person{{Familyname: "Maier", Title: "herrn", RecipientScore: 90}}
	doc.MentionedPersons = append(doc.MentionedPersons, doc.Authors...)
	doc.MentionedPersons = append(doc.MentionedPersons, doc.Recipients...)
	doc.MentionedPlaces = []Place{{Name: "Stuttgart", GeonamesID: "2825297", RegistryID: "L-1", AlternateNames: []string{}}}
	doc.MentionedOrganizations = []Organization{{Name: "Liederkranz", AlternateNames: []string{"LK"}}}
	doc.MentionedEvents = []Event{{Name: "Konzert", Description: "Konzert in Stuttgart", Date: "1942.05.28", Persons: []Person{}, Places: []Place{}, Organizations: []Organization{}, StartLine: 3, EndLine: 4}}
	doc.MentionedDates = []DateRecord{{Date: "1942.05.28", DayMonthYear: "28.05.1942", Count: 2}}
	doc.CreationDate = "1942.05.28"
	doc.CreationPlace = "Stuttgart"
	doc.ContentTagsInGerman = []string{"Konzert"}
	doc.ContentTranscription = "An Herrn Maier"
	doc.DocumentType = "letter"
	doc.DocumentFormat = "handwritten"

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{
		"object_type", "attributes", "authors", "recipients", "mentioned_persons",
		"mentioned_organizations", "mentioned_events", "creation_date", "creation_place",
		"mentioned_dates", "mentioned_places", "content_tags_in_german",
		"content_transcription", "document_type", "document_format",
	} {
		assert.Contains(t, raw, key)
	}
	assert.Len(t, raw, 15)

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *doc, back)
}

func TestConfidenceRank(t *testing.T) {
	assert.Greater(t, ConfidenceExact.Rank(), ConfidenceFuzzy.Rank())
	assert.Greater(t, ConfidenceFuzzy.Rank(), ConfidenceLow.Rank())
	assert.Greater(t, ConfidenceLow.Rank(), ConfidenceUnresolved.Rank())

	r := Unresolved[Person]()
	assert.False(t, r.Resolved())
	assert.True(t, r.NeedsReview)
	assert.Equal(t, ConfidenceUnresolved, r.Tier)
}
