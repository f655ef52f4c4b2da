package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// MessageHandler processes one decoded transcript message
type MessageHandler func(ctx context.Context, msg *IncomingMessage) error

// Reader is the part of kafka.Reader the consumer uses
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerConfig holds Kafka consumer configuration
type ConsumerConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// Consumer reads transcripts from a topic
type Consumer struct {
	reader   Reader
	topic    string
	envelope *Envelope
	logger   ectologger.Logger
	handler  MessageHandler
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

// NewConsumer creates a consumer reading cfg.Topic with a consumer group
func NewConsumer(cfg ConsumerConfig, envelope *Envelope, logger ectologger.Logger, handler MessageHandler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return NewConsumerWithReader(reader, cfg.Topic, envelope, logger, handler)
}

// NewConsumerWithReader creates a consumer over an existing reader
func NewConsumerWithReader(reader Reader, topic string, envelope *Envelope, logger ectologger.Logger, handler MessageHandler) *Consumer {
	if envelope == nil {
		envelope = NewEnvelope("", "")
	}
	return &Consumer{
		reader:   reader,
		topic:    topic,
		envelope: envelope,
		logger:   logger,
		handler:  handler,
	}
}

// Start begins consuming messages
func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.WithContext(ctx).WithField("topic", c.topic).Info("Kafka consumer started")
	return nil
}

// Stop gracefully stops the consumer
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return c.reader.Close()
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			c.logger.WithContext(ctx).Info("Consumer loop stopping")
			return
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
					return
				}
				c.logger.WithContext(ctx).WithError(err).Error("Failed to fetch message")
				continue
			}

			c.processMessage(ctx, msg)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}

	if tp := headers[HeaderTraceParent]; tp != "" {
		ctx = tracing.ExtractTraceParent(ctx, tp)
	}

	ctx, span := tracing.StartSpan(ctx, "kafka.Consumer.processMessage")
	defer span.End()

	log := c.logger.WithContext(ctx).WithFields(map[string]any{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	incoming := &IncomingMessage{
		Key:         string(msg.Key),
		Value:       msg.Value,
		Headers:     headers,
		Partition:   msg.Partition,
		Offset:      msg.Offset,
		Timestamp:   msg.Time,
		Topic:       msg.Topic,
		TraceParent: headers[HeaderTraceParent],
	}

	transcript, err := c.envelope.Decode(msg.Value)
	if err != nil {
		// an undecodable message never succeeds; commit so the partition moves on
		log.WithError(err).Error("Failed to decode transcript message")
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.WithError(err).Error("Failed to commit message")
		}
		return
	}
	if transcript.ID == "" {
		transcript.ID = incoming.Key
	}
	incoming.Transcript = transcript

	if err := c.handler(ctx, incoming); err != nil {
		// not committed: the message is redelivered
		log.WithError(err).WithField("document_id", incoming.DocumentID()).Error("Failed to process message (not committing)")
		return
	}

	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		log.WithError(err).Error("Failed to commit message")
	}
}

// Health returns the consumer health status
func (c *Consumer) Health() bool {
	return c.reader != nil
}
