package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sorrel/pkg/enrichment"
	"github.com/Ramsey-B/sorrel/pkg/logging"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/registry"
	"github.com/Ramsey-B/sorrel/pkg/validation"
)

type stubEnricher struct{}

func (stubEnricher) Enrich(_ context.Context, t *models.Transcript) (*enrichment.Result, error) {
	switch t.ID {
	case "boom":
		panic("index out of range")
	case "bad":
		return nil, errors.New("invalid transcript")
	case "invalid":
		return &enrichment.Result{
			Document: models.NewDocument(),
			Errors:   validation.Errors{"recipients": {"required"}},
		}, nil
	}
	return &enrichment.Result{
		Document: models.NewDocument(),
		Errors:   validation.Errors{},
		Review:   []models.ReviewItem{{DocumentID: t.ID, Kind: models.ReviewUnresolved}},
	}, nil
}

type recordingSink struct {
	mu    sync.Mutex
	items []models.ReviewItem
	err   error
}

func (s *recordingSink) Submit(_ context.Context, items []models.ReviewItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
	return s.err
}

func transcripts(ids ...string) []*models.Transcript {
	out := make([]*models.Transcript, len(ids))
	for i, id := range ids {
		out[i] = &models.Transcript{ID: id, Lines: []models.Line{{Text: "Lieber Otto!"}}}
	}
	return out
}

func TestRunKeepsOrderAndSurvivesFailures(t *testing.T) {
	sink := &recordingSink{}
	runner := NewRunner(stubEnricher{}, sink, 3, logging.Discard())

	outcomes := runner.Run(context.Background(), "test", transcripts("a", "boom", "b", "bad", "invalid", "c"))
	require.Len(t, outcomes, 6)

	for i, id := range []string{"a", "boom", "b", "bad", "invalid", "c"} {
		assert.Equal(t, i, outcomes[i].Index)
		assert.Equal(t, id, outcomes[i].DocumentID)
	}

	assert.True(t, outcomes[1].Failed())
	assert.Contains(t, outcomes[1].Error, "panic: index out of range")
	assert.Nil(t, outcomes[1].Result)
	assert.Equal(t, "invalid transcript", outcomes[3].Error)
	assert.False(t, outcomes[0].Failed())

	summary := Summarize(outcomes)
	assert.Equal(t, Summary{Total: 6, Valid: 3, Invalid: 1, Failed: 2, Review: 3}, summary)
	assert.Len(t, sink.items, 3)
}

func TestRunEmpty(t *testing.T) {
	runner := NewRunner(stubEnricher{}, nil, 0, logging.Discard())
	assert.Empty(t, runner.Run(context.Background(), "test", nil))
}

func TestProcessSinkErrorKeepsResult(t *testing.T) {
	sink := &recordingSink{err: errors.New("redis down")}
	runner := NewRunner(stubEnricher{}, sink, 1, logging.Discard())

	outcome := runner.Process(context.Background(), "test", transcripts("a")[0])
	assert.False(t, outcome.Failed())
	require.NotNil(t, outcome.Result)
	assert.Len(t, sink.items, 1)
}

func TestRunWithRealEnricher(t *testing.T) {
	enricher := enrichment.New(logging.Discard(), registry.Empty(), enrichment.DefaultOptions())
	runner := NewRunner(enricher, nil, 4, logging.Discard())

	var batch []*models.Transcript
	for i := 0; i < 10; i++ {
		batch = append(batch, &models.Transcript{
			ID:    fmt.Sprintf("doc-%d", i),
			Lines: []models.Line{{Text: "Stuttgart, den 28. Mai 1942"}},
		})
	}
	batch = append(batch, &models.Transcript{ID: "empty"})

	outcomes := runner.Run(context.Background(), "test", batch)
	require.Len(t, outcomes, 11)
	for _, o := range outcomes[:10] {
		assert.False(t, o.Failed(), o.Error)
	}
	assert.True(t, outcomes[10].Failed())
}
