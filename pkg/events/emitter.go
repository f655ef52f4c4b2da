// Package events emits document lifecycle events
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sorrel/pkg/enrichment"
	"github.com/Ramsey-B/sorrel/pkg/kafka"
	"github.com/Ramsey-B/sorrel/pkg/metrics"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

const (
	EventDocumentEnriched = "document.enriched"
	EventDocumentReview   = "document.review"
)

// Publisher sends document events
type Publisher interface {
	PublishDocumentEvent(ctx context.Context, event *kafka.DocumentEvent) error
}

// Emitter handles event emission for sorrel
type Emitter struct {
	publisher Publisher
	logger    ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(publisher Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		publisher: publisher,
		logger:    logger,
	}
}

// EmitEnriched emits the enriched record with its validation errors
func (e *Emitter) EmitEnriched(ctx context.Context, documentID string, result *enrichment.Result) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitEnriched")
	defer span.End()

	data, err := json.Marshal(map[string]any{
		"document":  result.Document,
		"errors":    result.Errors,
		"malformed": len(result.Malformed),
		"review":    len(result.Review),
	})
	if err != nil {
		return fmt.Errorf("failed to encode enriched document: %w", err)
	}

	return e.emit(ctx, &kafka.DocumentEvent{
		EventType:  EventDocumentEnriched,
		DocumentID: documentID,
		Valid:      result.Errors.Valid(),
		Data:       data,
	})
}

// EmitReview emits the review items of one document. Nothing is emitted
// when there are none.
func (e *Emitter) EmitReview(ctx context.Context, documentID string, items []models.ReviewItem) error {
	if len(items) == 0 {
		return nil
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitReview")
	defer span.End()

	data, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		return fmt.Errorf("failed to encode review items: %w", err)
	}

	return e.emit(ctx, &kafka.DocumentEvent{
		EventType:  EventDocumentReview,
		DocumentID: documentID,
		Data:       data,
	})
}

// EmitResult emits the enriched event followed by the review event
func (e *Emitter) EmitResult(ctx context.Context, documentID string, result *enrichment.Result) error {
	if err := e.EmitEnriched(ctx, documentID, result); err != nil {
		return err
	}
	return e.EmitReview(ctx, documentID, result.Review)
}

func (e *Emitter) emit(ctx context.Context, event *kafka.DocumentEvent) error {
	if err := e.publisher.PublishDocumentEvent(ctx, event); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(event.EventType, "error").Inc()
		e.logger.WithContext(ctx).WithError(err).WithField("document_id", event.DocumentID).Errorf("Failed to emit %s event", event.EventType)
		return err
	}
	metrics.EventsPublishedTotal.WithLabelValues(event.EventType, "success").Inc()
	return nil
}
