package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sorrel/pkg/enrichment"
	"github.com/Ramsey-B/sorrel/pkg/kafka"
	"github.com/Ramsey-B/sorrel/pkg/logging"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/validation"
)

type fakePublisher struct {
	events []*kafka.DocumentEvent
	err    error
}

func (p *fakePublisher) PublishDocumentEvent(_ context.Context, event *kafka.DocumentEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func TestEmitResult(t *testing.T) {
	publisher := &fakePublisher{}
	emitter := NewEmitter(publisher, logging.Discard())

	result := &enrichment.Result{
		Document: models.NewDocument(),
		Errors:   validation.Errors{"authors": {"at least one author is required"}},
		Review:   []models.ReviewItem{{DocumentID: "doc-1", Kind: models.ReviewUnresolved, Text: "Hans"}},
	}

	require.NoError(t, emitter.EmitResult(context.Background(), "doc-1", result))
	require.Len(t, publisher.events, 2)

	enriched := publisher.events[0]
	assert.Equal(t, EventDocumentEnriched, enriched.EventType)
	assert.Equal(t, "doc-1", enriched.DocumentID)
	assert.False(t, enriched.Valid)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(enriched.Data, &payload))
	assert.Contains(t, payload, "document")
	assert.JSONEq(t, `{"authors":["at least one author is required"]}`, string(payload["errors"]))

	review := publisher.events[1]
	assert.Equal(t, EventDocumentReview, review.EventType)
	assert.Contains(t, string(review.Data), `"text":"Hans"`)
}

func TestEmitReviewSkipsEmpty(t *testing.T) {
	publisher := &fakePublisher{}
	emitter := NewEmitter(publisher, logging.Discard())

	require.NoError(t, emitter.EmitReview(context.Background(), "doc-1", nil))
	assert.Empty(t, publisher.events)
}

func TestEmitError(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("broker down")}
	emitter := NewEmitter(publisher, logging.Discard())

	result := &enrichment.Result{Document: models.NewDocument(), Errors: validation.Errors{}}
	assert.Error(t, emitter.EmitResult(context.Background(), "doc-1", result))
}
