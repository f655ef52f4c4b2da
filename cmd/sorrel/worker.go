package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/sorrel/pkg/events"
	"github.com/Ramsey-B/sorrel/pkg/kafka"
	"github.com/Ramsey-B/sorrel/pkg/startup"
)

func (a *app) producerConfig() kafka.ProducerConfig {
	return kafka.ProducerConfig{
		Brokers:      a.cfg.KafkaBrokers,
		Topic:        a.cfg.KafkaOutputTopic,
		BatchSize:    a.cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(a.cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: a.cfg.KafkaRequiredAcks,
		Compression:  a.cfg.KafkaCompression,
	}
}

func workerCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume transcripts from Kafka and publish enriched documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*envFile)
			if err != nil {
				return err
			}

			envelope := kafka.NewEnvelope(a.cfg.KafkaTranscriptPath, a.cfg.KafkaDocumentIDPath)
			if err := envelope.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.registerPipeline()

			producer := kafka.NewProducer(a.producerConfig(), a.logger)
			emitter := events.NewEmitter(producer, a.logger)
			var consumer *kafka.Consumer

			a.boot.AddDependency(startup.Dependency{
				Name:  "consumer",
				Needs: []string{"pipeline"},
				StartFn: func(ctx context.Context) error {
					consumer = kafka.NewConsumer(kafka.ConsumerConfig{
						Brokers:       a.cfg.KafkaBrokers,
						Topic:         a.cfg.KafkaInputTopic,
						ConsumerGroup: a.cfg.KafkaConsumerGroup,
					}, envelope, a.logger, func(ctx context.Context, msg *kafka.IncomingMessage) error {
						outcome := a.runner.Process(ctx, "kafka", msg.Transcript)
						if outcome.Failed() {
							// retrying cannot fix a transcript the pipeline rejects
							return nil
						}
						return emitter.EmitResult(ctx, outcome.DocumentID, outcome.Result)
					})
					return consumer.Start(ctx)
				},
				StopFn: func(context.Context) error {
					if err := consumer.Stop(); err != nil {
						return err
					}
					return producer.Close()
				},
			})

			if err := a.start(ctx); err != nil {
				a.stop()
				return err
			}
			defer a.stop()

			<-ctx.Done()
			a.logger.Info("Shutting down")
			return nil
		},
	}
}
