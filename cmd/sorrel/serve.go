package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/sorrel/pkg/events"
	"github.com/Ramsey-B/sorrel/pkg/kafka"
	"github.com/Ramsey-B/sorrel/pkg/registry"
	"github.com/Ramsey-B/sorrel/pkg/routes/documents"
	"github.com/Ramsey-B/sorrel/pkg/routes/health"
	reviewroutes "github.com/Ramsey-B/sorrel/pkg/routes/review"
	"github.com/Ramsey-B/sorrel/pkg/server"
	"github.com/Ramsey-B/sorrel/pkg/startup"
)

func serveCmd(envFile *string) *cobra.Command {
	var emit bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the enrichment API:

  POST /api/v1/documents/enrich         enrich one transcript
  POST /api/v1/documents/enrich/batch   enrich several transcripts
  POST /api/v1/documents/validate       validate a document record
  GET  /api/v1/review                   newest review items (Redis only)
  GET  /api/v1/health[/live|/ready]     health checks
  GET  /metrics                         Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*envFile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.registerPipeline()

			var producer *kafka.Producer
			if emit {
				producer = kafka.NewProducer(a.producerConfig(), a.logger)
				a.boot.AddDependency(startup.Dependency{
					Name:   "producer",
					StopFn: func(context.Context) error { return producer.Close() },
				})
			}

			srv := server.New(a.cfg, a.logger)
			var checker *health.Checker
			errCh := make(chan error, 1)

			a.boot.AddDependency(startup.Dependency{
				Name:  "http",
				Needs: []string{"pipeline"},
				StartFn: func(context.Context) error {
					var emitter documents.ResultEmitter
					if producer != nil {
						emitter = events.NewEmitter(producer, a.logger)
					}

					deps := map[string]health.Pinger{}
					if a.db != nil {
						deps["database"] = a.db
					}
					if a.redis != nil {
						deps["redis"] = health.PingerFunc(a.redis.Ping)
					}
					checker = health.NewChecker(func() *registry.Snapshot { return a.snapshot }, deps, version)
					checker.RegisterRoutes(srv.Echo())

					documents.NewHandler(a.runner, emitter, a.logger).Register(srv.Group("/api/v1/documents"))
					if a.stream != nil {
						reviewroutes.NewHandler(a.stream).Register(srv.Group("/api/v1/review"))
					}

					go func() { errCh <- srv.Start() }()
					checker.SetReady(true)
					return nil
				},
				StopFn: func(ctx context.Context) error {
					if checker != nil {
						checker.SetReady(false)
					}
					return srv.Shutdown(ctx)
				},
			})

			if err := a.start(ctx); err != nil {
				a.stop()
				return err
			}
			defer a.stop()

			select {
			case <-ctx.Done():
				a.logger.Info("Shutting down")
				return nil
			case err := <-errCh:
				return err
			}
		},
	}

	cmd.Flags().BoolVar(&emit, "emit", false, "publish document events to Kafka")
	return cmd
}
