package letter

import (
	"context"
	"fmt"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sorrel/pkg/matching"
	"github.com/Ramsey-B/sorrel/pkg/merging"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/registry"
	"github.com/Ramsey-B/sorrel/pkg/resolver"
	"github.com/Ramsey-B/sorrel/pkg/roles"
)

func newResolver() *Resolver {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	scorer := matching.NewPersonScorer(matching.NewScorer(), matching.DefaultThresholds())
	engine := merging.NewEngine(logger, resolver.NewPersonResolver(scorer, 90), 85)
	return NewResolver(logger, engine, roles.NewVocabulary(nil))
}

func TestClosings(t *testing.T) {
	assert.True(t, IsClosing("Mit deutschem Sängergruß"))
	assert.True(t, IsClosing("Mit freundlichen Grüssen!"))
	assert.True(t, IsClosing("Hochachtungsvoll"))
	assert.True(t, IsClosing("Ihr"))
	assert.False(t, IsClosing("Ihr Brief kam gestern an."))
	assert.False(t, IsClosing(""))

	lines := []string{"Hochachtungsvoll", "Otto Bollinger", "Mit Sängergruß", "Karl Maier"}
	assert.Equal(t, 2, LastClosing(lines))
	assert.Equal(t, -1, LastClosing([]string{"Otto Bollinger"}))
}

func TestFindAuthor(t *testing.T) {
	vocab := roles.NewVocabulary(nil)
	body := []string{"Lieber Otto!", "Wir danken Dir für die Einladung."}

	tests := []struct {
		name     string
		footer   []string
		rule     string
		forename string
		family   string
		role     string
	}{
		{"name and role", []string{"Mit deutschem Sängergruß", "", "Karl Maier, Schriftführer"}, "name-role", "Karl", "Maier", "secretary"},
		{"initial and surname", []string{"Mit freundlichen Grüßen", "K. Maier"}, "initial-surname", "K.", "Maier", ""},
		{"full name", []string{"Hochachtungsvoll", "Ihr", "Karl Maier"}, "full-name", "Karl", "Maier", ""},
		{"role then name", []string{"Mit Sängergruß", "Der Vorsitzende", "Karl Maier"}, "role-only-then-name", "Karl", "Maier", "chairman"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := FindAuthor(append(append([]string{}, body...), tt.footer...), vocab)
			require.True(t, ok)
			assert.Equal(t, tt.rule, c.Rule)
			assert.Equal(t, tt.forename, c.Person.Forename)
			assert.Equal(t, tt.family, c.Person.Familyname)
			assert.Equal(t, tt.role, c.Person.Role)
		})
	}

	t.Run("no closing", func(t *testing.T) {
		_, ok := FindAuthor([]string{"Karl Maier"}, vocab)
		assert.False(t, ok)
	})
}

func TestFindRecipients(t *testing.T) {
	vocab := roles.NewVocabulary(nil)

	tests := []struct {
		name   string
		lines  []string
		rule   string
		score  float64
		line   int
		family string
	}{
		{"inline header", []string{"An Herrn Otto Bollinger"}, RuleHeaderInline, 90, 0, "Bollinger"},
		{"three line header", []string{"An", "Herrn", "Otto Bollinger", "Stuttgart, den 28. Mai 1942"}, RuleHeader3Line, 80, 2, "Bollinger"},
		{"two line header", []string{"Herrn", "Otto Bollinger"}, RuleHeader2Line, 70, 1, "Bollinger"},
		{"direct address", []string{"Sehr geehrter Herr Bollinger!"}, RuleDirectAddress, 100, 0, "Bollinger"},
		{"indirect address", []string{"Bitte z. Hd. Herrn Karl Maier weiterleiten"}, RuleIndirectAddress, 70, 0, "Maier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindRecipients(tt.lines, vocab)
			require.Len(t, got, 1)
			assert.Equal(t, tt.rule, got[0].Rule)
			assert.Equal(t, tt.score, got[0].Score)
			assert.Equal(t, tt.score, got[0].Person.RecipientScore)
			assert.Equal(t, tt.line, got[0].Line)
			assert.Equal(t, tt.family, got[0].Person.Familyname)
		})
	}

	t.Run("three line header scores below inline", func(t *testing.T) {
		three := FindRecipients([]string{"An", "Herrn", "Otto Bollinger"}, vocab)
		inline := FindRecipients([]string{"An Herrn Otto Bollinger"}, vocab)
		require.Len(t, three, 1)
		require.Len(t, inline, 1)
		assert.Equal(t, "Herrn", three[0].Person.Title)
		assert.Equal(t, "Otto", three[0].Person.Forename)
		assert.Less(t, three[0].Score, inline[0].Score)
	})

	t.Run("plural salutation ignored", func(t *testing.T) {
		assert.Empty(t, FindRecipients([]string{"Liebe Sangesbrüder!", "An den Liederkranz Stuttgart"}, vocab))
	})
}

func TestResolveRecipients(t *testing.T) {
	r := newResolver()
	ctx := context.Background()

	t.Run("grouped by forename keeps most complete", func(t *testing.T) {
		res := r.Resolve(ctx, Input{Lines: []string{"An Herrn Otto Bollinger", "", "Lieber Otto!"}}, registry.Empty())
		require.Len(t, res.Recipients, 1)
		assert.Equal(t, "Otto", res.Recipients[0].Forename)
		assert.Equal(t, "Bollinger", res.Recipients[0].Familyname)
		assert.Equal(t, 90.0, res.Recipients[0].RecipientScore)
	})

	t.Run("capped", func(t *testing.T) {
		var lines []string
		for _, name := range []string{"Anton", "Bernhard", "Christian", "David", "Emil"} {
			lines = append(lines, fmt.Sprintf("Lieber %s Maier,", name))
		}
		res := r.Resolve(ctx, Input{Lines: lines}, registry.Empty())
		require.Len(t, res.Recipients, MaxRecipients)
		assert.Equal(t, "Anton", res.Recipients[0].Forename)
		assert.Equal(t, "David", res.Recipients[3].Forename)
	})
}

func TestResolveAuthorConflict(t *testing.T) {
	r := newResolver()
	ctx := context.Background()
	lines := []string{"Lieber Karl!", "Mit Sängergruß", "Otto Bollinger"}

	t.Run("marked record stays canonical", func(t *testing.T) {
		res := r.Resolve(ctx, Input{
			DocumentID: "doc-1",
			Lines:      lines,
			Marked: []Marked{{
				Field: FieldAuthor, Source: "annotation",
				Person: models.Person{Forename: "Hans", Familyname: "Schäfer", MentionCount: 1},
			}},
		}, registry.Empty())

		require.Len(t, res.Authors, 1)
		assert.Equal(t, "Schäfer", res.Authors[0].Familyname)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, FieldAuthor, res.Conflicts[0].Field)
		assert.Equal(t, "annotation", res.Conflicts[0].CanonicalSource)
		assert.Equal(t, "Bollinger", res.Conflicts[0].Competing.Familyname)
		assert.Equal(t, "full-name", res.Conflicts[0].CompetingSource)
		// the unmatched salutation recipient is queued after the conflict
		require.Len(t, res.Review, 2)
		assert.Equal(t, models.ReviewIdentityConflict, res.Review[0].Kind)
		assert.Equal(t, "doc-1", res.Review[0].DocumentID)
		assert.Equal(t, models.ReviewUnresolved, res.Review[1].Kind)
		assert.Equal(t, "Karl", res.Review[1].Text)
	})

	t.Run("agreeing sources merge", func(t *testing.T) {
		res := r.Resolve(ctx, Input{
			Lines: lines,
			Marked: []Marked{{
				Field: FieldAuthor, Source: "prior",
				Person: models.Person{Forename: "Otto", Familyname: "Bollinger", MentionCount: 1},
			}},
		}, registry.Empty())

		require.Len(t, res.Authors, 1)
		assert.Empty(t, res.Conflicts)
		assert.Equal(t, 1, res.Authors[0].MentionCount)
	})
}

func TestResolveQueuesUnmatchedCandidates(t *testing.T) {
	r := newResolver()
	ctx := context.Background()
	snapshot := registry.NewSnapshot(registry.Data{
		Persons: []registry.PersonEntry{{ID: "P-1", Forename: "Otto", Familyname: "Bollinger"}},
	})
	lines := []string{"An", "Herrn", "Hans Schmid", "", "Wir danken für die Einladung.", "Mit Sängergruß", "Emil Wagner"}

	t.Run("unmatched free text is reviewed", func(t *testing.T) {
		res := r.Resolve(ctx, Input{DocumentID: "doc-2", Lines: lines}, snapshot)

		require.Len(t, res.Authors, 1)
		assert.Equal(t, models.ConfidenceUnresolved, res.Authors[0].Confidence)
		require.Len(t, res.Recipients, 1)
		assert.Equal(t, models.ConfidenceUnresolved, res.Recipients[0].Confidence)

		require.Len(t, res.Review, 2)
		assert.Equal(t, models.ReviewUnresolved, res.Review[0].Kind)
		assert.Equal(t, "Emil Wagner", res.Review[0].Text)
		assert.Equal(t, 6, res.Review[0].Line)
		assert.Equal(t, models.ReviewUnresolved, res.Review[1].Kind)
		assert.Equal(t, "Hans Schmid", res.Review[1].Text)
		for _, item := range res.Review {
			assert.Equal(t, "doc-2", item.DocumentID)
			assert.Equal(t, models.MentionPerson, item.EntityType)
		}
	})

	t.Run("registry matches are not reviewed", func(t *testing.T) {
		res := r.Resolve(ctx, Input{Lines: []string{"An Herrn Otto Bollinger", "Mit Sängergruß", "Otto Bollinger"}}, snapshot)
		require.Len(t, res.Recipients, 1)
		assert.Equal(t, "P-1", res.Recipients[0].RegistryID)
		assert.Empty(t, res.Review)
	})

	t.Run("adopted document persons are not reviewed twice", func(t *testing.T) {
		res := r.Resolve(ctx, Input{
			Lines:   lines,
			Persons: []models.Person{{Forename: "Emil", Familyname: "Wagner", Confidence: models.ConfidenceUnresolved, MentionCount: 1}},
		}, snapshot)
		require.Len(t, res.Review, 1)
		assert.Equal(t, "Hans Schmid", res.Review[0].Text)
	})
}

func TestEnsureMentioned(t *testing.T) {
	r := newResolver()
	authors := []models.Person{{Forename: "Otto", Familyname: "Bollinger", Role: "chairman", RoleSchema: "CHAIR", MentionCount: 1}}
	recipients := []models.Person{{Forename: "Karl", Familyname: "Maier", RecipientScore: 90, MentionCount: 1}}
	mentioned := []models.Person{{Forename: "Karl", Familyname: "Maier", Role: "secretary", RoleSchema: "SECRETARY", MentionCount: 2}}

	a, rc, m := r.EnsureMentioned(authors, recipients, mentioned)
	require.Len(t, m, 2)
	assert.Equal(t, "Bollinger", m[1].Familyname)
	assert.Equal(t, "chairman", m[1].Role)
	assert.Equal(t, "secretary", rc[0].Role)
	assert.Equal(t, "SECRETARY", rc[0].RoleSchema)
	assert.Equal(t, "chairman", a[0].Role)
	assert.Empty(t, recipients[0].Role)

	_, _, again := r.EnsureMentioned(a, rc, m)
	assert.Equal(t, m, again)
}
