package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/Ramsey-B/sorrel/pkg/metrics"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// Source loads raw registry data
type Source interface {
	Load(ctx context.Context) (*Data, error)
}

// Load reads data from source and builds the snapshot
func Load(ctx context.Context, source Source, logger ectologger.Logger) (*Snapshot, error) {
	ctx, span := tracing.StartSpan(ctx, "registry.Load")
	defer span.End()

	data, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	snapshot := NewSnapshot(*data)
	for name, count := range snapshot.Counts() {
		metrics.RegistryEntries.WithLabelValues(name).Set(float64(count))
	}
	logger.WithContext(ctx).WithFields(map[string]any{
		"version":       snapshot.Version(),
		"persons":       len(data.Persons),
		"places":        len(data.Places),
		"organizations": len(data.Organizations),
		"roles":         len(data.Roles),
	}).Info("Registry snapshot loaded")
	return snapshot, nil
}

// FileSource reads registries from a YAML (or JSON) file
type FileSource struct {
	Path string
}

// Load implements Source
func (f FileSource) Load(_ context.Context) (*Data, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %s: %w", f.Path, err)
	}
	return ParseYAML(raw)
}

// ParseYAML decodes registry data. JSON is valid YAML and is accepted too.
func ParseYAML(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse registry data: %w", err)
	}
	return &data, nil
}

// Cache is the key/value store used by CachedSource
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// CachedSource serves registry data from a cache and falls back to the
// wrapped source on a miss. Cache failures are logged, never returned.
type CachedSource struct {
	source Source
	cache  Cache
	key    string
	ttl    time.Duration
	logger ectologger.Logger
}

// NewCachedSource wraps source with a cache entry under key
func NewCachedSource(source Source, cache Cache, key string, ttl time.Duration, logger ectologger.Logger) *CachedSource {
	return &CachedSource{source: source, cache: cache, key: key, ttl: ttl, logger: logger}
}

// Load implements Source
func (c *CachedSource) Load(ctx context.Context) (*Data, error) {
	log := c.logger.WithContext(ctx).WithField("cache_key", c.key)

	cached, err := c.cache.Get(ctx, c.key)
	switch {
	case err == nil:
		var data Data
		if err := json.Unmarshal([]byte(cached), &data); err == nil {
			log.Debug("Registry served from cache")
			return &data, nil
		}
		log.Warn("Cached registry is not decodable, reloading")
	case errors.Is(err, redis.Nil):
		log.Debug("Registry cache miss")
	default:
		log.WithError(err).Warn("Failed to read registry cache")
	}

	data, err := c.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode registry for cache: %w", err)
	}
	if err := c.cache.Set(ctx, c.key, string(encoded), c.ttl); err != nil {
		log.WithError(err).Warn("Failed to write registry cache")
	}
	return data, nil
}
