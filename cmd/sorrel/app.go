package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sorrel/config"
	registryrepo "github.com/Ramsey-B/sorrel/internal/repositories/registry"
	"github.com/Ramsey-B/sorrel/pkg/batch"
	"github.com/Ramsey-B/sorrel/pkg/database"
	"github.com/Ramsey-B/sorrel/pkg/enrichment"
	"github.com/Ramsey-B/sorrel/pkg/logging"
	"github.com/Ramsey-B/sorrel/pkg/redis"
	"github.com/Ramsey-B/sorrel/pkg/registry"
	"github.com/Ramsey-B/sorrel/pkg/review"
	"github.com/Ramsey-B/sorrel/pkg/startup"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// app holds the dependencies shared by the commands. Fields are filled as
// the startup dependencies start.
type app struct {
	cfg    config.Config
	logger ectologger.Logger
	boot   *startup.Startup

	db       database.DB
	redis    *redis.Client
	snapshot *registry.Snapshot
	enricher *enrichment.Enricher
	stream   *review.StreamSink
	sink     review.Sink
	runner   *batch.Runner
}

func newApp(envFile string) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.AppName, cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		boot:   startup.NewStartup(logger, cfg.StartupMaxAttempts),
	}, nil
}

func (a *app) usesDatabase() bool {
	return a.cfg.RegistrySource == database.DriverPostgres || a.cfg.RegistrySource == database.DriverSQLite
}

func (a *app) databaseConfig() database.Config {
	if a.cfg.RegistrySource == database.DriverSQLite {
		return database.Config{Driver: database.DriverSQLite, DSN: a.cfg.SQLitePath}
	}
	return database.Config{
		Driver:          database.DriverPostgres,
		DSN:             a.cfg.PostgresDSN(),
		MaxOpenConns:    a.cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    a.cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: a.cfg.DatabaseConnMaxLifetime,
	}
}

func (a *app) redisConfig() redis.Config {
	return redis.Config{
		Host:     a.cfg.RedisHost,
		Port:     a.cfg.RedisPort,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	}
}

func (a *app) migrationConfig() *database.MigrationConfig {
	folder := a.cfg.DatabaseMigrationFolderPath
	if a.cfg.RegistrySource == database.DriverSQLite {
		folder = a.cfg.SQLiteMigrationFolderPath
	}
	return &database.MigrationConfig{
		MigrationFolderPath: folder,
		Version:             uint(max(a.cfg.DatabaseMigrationVersion, 0)),
		Force:               a.cfg.DatabaseMigrationForce,
		AutoRollback:        a.cfg.DatabaseMigrationAutoRollback,
	}
}

func (a *app) enrichmentOptions() enrichment.Options {
	opts := enrichment.DefaultOptions()
	opts.Fields.Forename = a.cfg.ForenameThreshold
	opts.Fields.Familyname = a.cfg.FamilynameThreshold
	opts.RegistryThreshold = a.cfg.RegistryThreshold
	opts.DocumentThreshold = a.cfg.DocumentThreshold
	opts.PlaceThreshold = a.cfg.PlaceThreshold
	opts.OrgThreshold = a.cfg.OrgThreshold
	return opts
}

// registerTracing adds the OTLP exporter when enabled
func (a *app) registerTracing() {
	var shutdown func(context.Context) error
	a.boot.AddDependency(startup.Dependency{
		Name: "tracing",
		StartFn: func(ctx context.Context) error {
			if !a.cfg.OTLPEnabled {
				return nil
			}
			var err error
			shutdown, err = tracing.Setup(ctx, a.cfg.AppName, tracing.OTLPConfig{
				Endpoint: a.cfg.OTLPEndpoint,
				Protocol: a.cfg.OTLPProtocol,
				Insecure: a.cfg.OTLPInsecure,
				Timeout:  10 * time.Second,
			})
			return err
		},
		StopFn: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}

func (a *app) registerDatabase() {
	a.boot.AddDependency(startup.Dependency{
		Name: "database",
		StartFn: func(ctx context.Context) error {
			db, err := database.Connect(ctx, a.databaseConfig(), a.logger)
			if err != nil {
				return err
			}
			a.db = db
			return nil
		},
		StopFn: func(context.Context) error {
			if a.db == nil {
				return nil
			}
			return a.db.Close()
		},
	})
}

func (a *app) registerRedis() {
	a.boot.AddDependency(startup.Dependency{
		Name: "redis",
		StartFn: func(ctx context.Context) error {
			client, err := redis.NewClient(ctx, a.redisConfig(), a.logger)
			if err != nil {
				return err
			}
			a.redis = client
			return nil
		},
		StopFn: func(context.Context) error {
			if a.redis == nil {
				return nil
			}
			return a.redis.Close()
		},
	})
}

// registerPipeline adds every dependency the enrichment pipeline needs:
// registry storage, the optional Redis cache and review stream, the
// registry snapshot and the batch runner
func (a *app) registerPipeline() {
	a.registerTracing()

	var needs []string
	if a.usesDatabase() {
		a.registerDatabase()
		needs = append(needs, "database")
	}
	if a.cfg.RedisEnabled {
		a.registerRedis()
		needs = append(needs, "redis")
	}

	a.boot.AddDependency(startup.Dependency{
		Name:  "registry",
		Needs: needs,
		StartFn: func(ctx context.Context) error {
			snapshot, err := registry.Load(ctx, a.registrySource(), a.logger)
			if err != nil {
				return err
			}
			a.snapshot = snapshot
			return nil
		},
	})

	a.boot.AddDependency(startup.Dependency{
		Name:  "pipeline",
		Needs: []string{"registry"},
		StartFn: func(context.Context) error {
			sinks := review.MultiSink{review.NewLogSink(a.logger)}
			if a.redis != nil {
				a.stream = review.NewStreamSink(a.redis, a.cfg.ReviewStream, a.cfg.ReviewStreamMaxLen, a.logger)
				sinks = append(sinks, a.stream)
			}
			a.sink = sinks
			a.enricher = enrichment.New(a.logger, a.snapshot, a.enrichmentOptions())
			a.runner = batch.NewRunner(a.enricher, a.sink, a.cfg.WorkerCount, a.logger)
			return nil
		},
	})
}

func (a *app) registrySource() registry.Source {
	var source registry.Source
	switch {
	case a.usesDatabase() && a.db != nil:
		source = registryrepo.NewRepository(a.db, a.logger)
	default:
		source = registry.FileSource{Path: a.cfg.RegistryFile}
	}

	if a.cfg.RegistryCacheUsed && a.redis != nil {
		source = registry.NewCachedSource(source, a.redis, a.cfg.RegistryCacheKey, a.cfg.RegistryCacheTTL, a.logger)
	}
	return source
}

func (a *app) start(ctx context.Context) error {
	if err := a.boot.Start(ctx); err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	return nil
}

func (a *app) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.boot.Stop(ctx); err != nil {
		a.logger.WithError(err).Error("Shutdown finished with errors")
	}
}
