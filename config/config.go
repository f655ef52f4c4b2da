package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"sorrel-api" validate:"required"`
	Port                          int      `env:"PORT" env-default:"3004" validate:"min=1,max=65535"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	MaxBodyBytes                  string   `env:"HTTP_SERVER_MAX_BODY" env-default:"8M"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5" validate:"min=1"`

	// Registry source: file, postgres or sqlite
	RegistrySource    string        `env:"REGISTRY_SOURCE" env-default:"file" validate:"oneof=file postgres sqlite"`
	RegistryFile      string        `env:"REGISTRY_FILE" env-default:"registry.yaml"`
	RegistryCacheKey  string        `env:"REGISTRY_CACHE_KEY" env-default:"sorrel:registry"`
	RegistryCacheTTL  time.Duration `env:"REGISTRY_CACHE_TTL" env-default:"1h"`
	RegistryCacheUsed bool          `env:"REGISTRY_CACHE_ENABLED" env-default:"false"`

	// Matching thresholds, 0-100
	ForenameThreshold   float64 `env:"FORENAME_THRESHOLD" env-default:"85" validate:"min=0,max=100"`
	FamilynameThreshold float64 `env:"FAMILYNAME_THRESHOLD" env-default:"85" validate:"min=0,max=100"`
	RegistryThreshold   float64 `env:"REGISTRY_THRESHOLD" env-default:"90" validate:"min=0,max=100"`
	DocumentThreshold   float64 `env:"DOCUMENT_THRESHOLD" env-default:"85" validate:"min=0,max=100"`
	PlaceThreshold      float64 `env:"PLACE_THRESHOLD" env-default:"85" validate:"min=0,max=100"`
	OrgThreshold        float64 `env:"ORG_THRESHOLD" env-default:"85" validate:"min=0,max=100"`

	// Batch processing
	WorkerCount int `env:"WORKER_COUNT" env-default:"4" validate:"min=1"`

	// PostgreSQL (registry tables)
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"sorrel"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// SQLite registry file
	SQLitePath                string `env:"SQLITE_PATH" env-default:"registry.db"`
	SQLiteMigrationFolderPath string `env:"SQLITE_MIGRATION_FOLDER_PATH" env-default:"db/sqlite"`

	// Redis (registry cache and review stream)
	RedisHost          string `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort          int    `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword      string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB            int    `env:"REDIS_DB" env-default:"0"`
	RedisEnabled       bool   `env:"REDIS_ENABLED" env-default:"false"`
	ReviewStream       string `env:"REVIEW_STREAM" env-default:"sorrel:review"`
	ReviewStreamMaxLen int64  `env:"REVIEW_STREAM_MAX_LEN" env-default:"10000"`

	// Kafka
	KafkaBrokers        []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaInputTopic     string   `env:"KAFKA_INPUT_TOPIC" env-default:"transcripts"`
	KafkaConsumerGroup  string   `env:"KAFKA_CONSUMER_GROUP" env-default:"sorrel-consumer"`
	KafkaOutputTopic    string   `env:"KAFKA_OUTPUT_TOPIC" env-default:"document-events"`
	KafkaBatchSize      int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout   int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks   int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression    string   `env:"KAFKA_COMPRESSION" env-default:"snappy" validate:"oneof=snappy gzip lz4 zstd none"`
	KafkaTranscriptPath string   `env:"KAFKA_TRANSCRIPT_PATH" env-default:"transcript || @"`
	KafkaDocumentIDPath string   `env:"KAFKA_DOCUMENT_ID_PATH" env-default:"id || transcript.id"`

	// Tracing
	OTLPEnabled  bool   `env:"OTLP_ENABLED" env-default:"false"`
	OTLPEndpoint string `env:"OTLP_ENDPOINT" env-default:"localhost:4317"`
	OTLPProtocol string `env:"OTLP_PROTOCOL" env-default:"grpc" validate:"oneof=grpc http"`
	OTLPInsecure bool   `env:"OTLP_INSECURE" env-default:"true"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the optional .env files, then the environment, and validates
// the result. Variables already set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// PostgresDSN builds the lib/pq connection string
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost, c.DatabasePort, c.DatabaseUserName, c.DatabasePassword, c.DatabaseName, c.DatabaseSSLMode)
}
