package review

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"

	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

const (
	// DefaultStream is the default review stream name
	DefaultStream = "sorrel:review"

	// DefaultMaxLen bounds the stream; the oldest entries are trimmed
	DefaultMaxLen = 10000
)

// StreamClient is the part of the Redis client the stream sink uses
type StreamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XRevRangeN(ctx context.Context, stream, start, stop string, count int64) *redis.XMessageSliceCmd
}

// StreamSink appends review items to a Redis stream
type StreamSink struct {
	client StreamClient
	stream string
	maxLen int64
	logger ectologger.Logger
}

// NewStreamSink creates a StreamSink
func NewStreamSink(client StreamClient, stream string, maxLen int64, logger ectologger.Logger) *StreamSink {
	if stream == "" {
		stream = DefaultStream
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &StreamSink{client: client, stream: stream, maxLen: maxLen, logger: logger}
}

// Submit implements Sink
func (s *StreamSink) Submit(ctx context.Context, items []models.ReviewItem) error {
	ctx, span := tracing.StartSpan(ctx, "review.StreamSink.Submit")
	defer span.End()

	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal review item: %w", err)
		}

		_, err = s.client.XAdd(ctx, &redis.XAddArgs{
			Stream: s.stream,
			MaxLen: s.maxLen,
			Approx: true,
			Values: map[string]interface{}{
				"data":        string(data),
				"document_id": item.DocumentID,
				"kind":        string(item.Kind),
				"trace_id":    tracing.GetTraceID(ctx),
			},
		}).Result()
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).WithField("document_id", item.DocumentID).Error("Failed to add review item")
			return fmt.Errorf("failed to add review item: %w", err)
		}
	}
	return nil
}

// List returns the newest review items, newest first
func (s *StreamSink) List(ctx context.Context, count int64) ([]models.ReviewItem, error) {
	ctx, span := tracing.StartSpan(ctx, "review.StreamSink.List")
	defer span.End()

	if count <= 0 {
		count = 100
	}

	messages, err := s.client.XRevRangeN(ctx, s.stream, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read review stream: %w", err)
	}

	items := make([]models.ReviewItem, 0, len(messages))
	for _, msg := range messages {
		data, ok := msg.Values["data"].(string)
		if !ok {
			continue
		}
		var item models.ReviewItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			s.logger.WithContext(ctx).WithError(err).WithField("message_id", msg.ID).Warn("Skipping undecodable review item")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
