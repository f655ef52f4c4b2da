// Package review forwards unresolved, low-confidence, conflicting and
// malformed items to manual adjudication
package review

import (
	"context"
	"errors"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sorrel/pkg/metrics"
	"github.com/Ramsey-B/sorrel/pkg/models"
)

// Sink accepts review items of one document
type Sink interface {
	Submit(ctx context.Context, items []models.ReviewItem) error
}

// LogSink writes every item as a structured warning
type LogSink struct {
	logger ectologger.Logger
}

// NewLogSink creates a LogSink
func NewLogSink(logger ectologger.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Submit implements Sink
func (s *LogSink) Submit(ctx context.Context, items []models.ReviewItem) error {
	for _, item := range items {
		metrics.ReviewItemsTotal.WithLabelValues(string(item.Kind)).Inc()
		s.logger.WithContext(ctx).WithFields(map[string]any{
			"document_id": item.DocumentID,
			"kind":        item.Kind,
			"entity_type": item.EntityType,
			"text":        item.Text,
			"line":        item.Line,
			"score":       item.Score,
			"tier":        item.Tier,
			"detail":      item.Detail,
		}).Warn("Item needs review")
	}
	return nil
}

// MultiSink fans items out to several sinks. Every sink is tried; the
// errors are joined.
type MultiSink []Sink

// Submit implements Sink
func (m MultiSink) Submit(ctx context.Context, items []models.ReviewItem) error {
	var errs []error
	for _, s := range m {
		if err := s.Submit(ctx, items); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
