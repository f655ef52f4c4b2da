package kafka

import (
	"time"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

const (
	HeaderTraceParent = "traceparent"
	HeaderEventType   = "event_type"
	HeaderDocumentID  = "document_id"
	HeaderSchema      = "schema_version"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Trace context (extracted from Kafka headers)
	TraceParent string

	// Parsed content
	Transcript *models.Transcript
}

// DocumentID returns the transcript id, falling back to the message key
func (m *IncomingMessage) DocumentID() string {
	if m.Transcript != nil && m.Transcript.ID != "" {
		return m.Transcript.ID
	}
	return m.Key
}
