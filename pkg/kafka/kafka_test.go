package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sorrel/pkg/logging"
)

const bareTranscript = `{"id":"doc-1","lines":[{"text":"Lieber Otto!","custom":""}]}`

func TestEnvelopeDecode(t *testing.T) {
	tests := []struct {
		name    string
		env     *Envelope
		value   string
		wantID  string
		wantErr string
	}{
		{name: "bare transcript", env: NewEnvelope("", ""), value: bareTranscript, wantID: "doc-1"},
		{name: "wrapped transcript", env: NewEnvelope("", ""), value: `{"id":"env-7","transcript":{"lines":[{"text":"x"}]}}`, wantID: "env-7"},
		{name: "numeric id", env: NewEnvelope("", ""), value: `{"id":42,"transcript":{"lines":[{"text":"x"}]}}`, wantID: "42"},
		{name: "custom paths", env: NewEnvelope("payload.doc", "meta.key"), value: `{"meta":{"key":"k-1"},"payload":{"doc":{"lines":[{"text":"x"}]}}}`, wantID: "k-1"},
		{name: "transcript id wins", env: NewEnvelope("", ""), value: `{"id":"env","transcript":{"id":"inner","lines":[]}}`, wantID: "inner"},
		{name: "not json", env: NewEnvelope("", ""), value: `{`, wantErr: "not valid JSON"},
		{name: "not an object", env: NewEnvelope("payload", ""), value: `{"payload":[1,2]}`, wantErr: "did not select an object"},
		{name: "bad expression", env: NewEnvelope("payload[", ""), value: `{}`, wantErr: "invalid expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transcript, err := tt.env.Decode([]byte(tt.value))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, transcript.ID)
		})
	}
}

func TestEnvelopeValidate(t *testing.T) {
	assert.NoError(t, NewEnvelope("", "").Validate())
	assert.Error(t, NewEnvelope("a[", "").Validate())
}

type fakeReader struct {
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestConsumerCommitsOnlyOnSuccess(t *testing.T) {
	reader := &fakeReader{}
	var handled []string
	fail := false
	consumer := NewConsumerWithReader(reader, "transcripts", nil, logging.Discard(), func(_ context.Context, msg *IncomingMessage) error {
		handled = append(handled, msg.DocumentID())
		if fail {
			return errors.New("enrichment failed")
		}
		return nil
	})

	ctx := context.Background()
	consumer.processMessage(ctx, kafka.Message{Topic: "transcripts", Offset: 1, Value: []byte(bareTranscript)})
	require.Len(t, reader.committed, 1)

	fail = true
	consumer.processMessage(ctx, kafka.Message{Topic: "transcripts", Offset: 2, Value: []byte(bareTranscript)})
	assert.Len(t, reader.committed, 1)

	// undecodable messages are committed without reaching the handler
	consumer.processMessage(ctx, kafka.Message{Topic: "transcripts", Offset: 3, Value: []byte("garbage")})
	assert.Len(t, reader.committed, 2)
	assert.Equal(t, int64(3), reader.committed[1].Offset)

	// the message key names documents without an id
	fail = false
	consumer.processMessage(ctx, kafka.Message{Key: []byte("from-key"), Value: []byte(`{"lines":[{"text":"x"}]}`)})
	assert.Equal(t, []string{"doc-1", "doc-1", "from-key"}, handled)
}

func TestConsumerStartStop(t *testing.T) {
	reader := &fakeReader{}
	consumer := NewConsumerWithReader(reader, "transcripts", nil, logging.Discard(), func(context.Context, *IncomingMessage) error { return nil })

	require.NoError(t, consumer.Start(context.Background()))
	require.NoError(t, consumer.Stop())
	assert.True(t, consumer.Health())
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestProducerPublishDocumentEvent(t *testing.T) {
	writer := &fakeWriter{}
	producer := NewProducerWithWriter(writer, "document-events", logging.Discard())

	err := producer.PublishDocumentEvent(context.Background(), &DocumentEvent{
		EventType:  "document.enriched",
		DocumentID: "doc-1",
		Valid:      true,
		Data:       json.RawMessage(`{"id":"doc-1"}`),
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "document-events", msg.Topic)
	assert.Equal(t, "doc-1", string(msg.Key))

	var event DocumentEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, SchemaVersion, event.SchemaVersion)
	assert.False(t, event.Timestamp.IsZero())
	assert.JSONEq(t, `{"id":"doc-1"}`, string(event.Data))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "document.enriched", headers[HeaderEventType])
	assert.Equal(t, "doc-1", headers[HeaderDocumentID])

	writer.err = errors.New("broker down")
	assert.Error(t, producer.PublishDocumentEvent(context.Background(), &DocumentEvent{EventType: "document.review"}))
}
