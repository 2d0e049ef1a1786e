package record

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "leakguard:record:"

// CacheConfig configures the read-through record cache.
type CacheConfig struct {
	// Addr is the redis address.
	Addr string `yaml:"addr" json:"addr"`
	// Password is the redis password, empty for none.
	Password string `yaml:"password" json:"password"`
	// DB is the redis database number.
	DB int `yaml:"db" json:"db"`
	// TTL is how long a cached record stays valid.
	TTL time.Duration `yaml:"ttl" json:"ttl"`
}

// DefaultCacheConfig returns the default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Addr: "localhost:6379",
		DB:   0,
		TTL:  5 * time.Minute,
	}
}

// CachedSource wraps another Source with a redis read-through cache.
// Record loads dominate scan latency when the backing source is a remote
// store; scans themselves stay pure and read-only.
type CachedSource struct {
	source Source
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSource connects to redis and wraps the given source. The
// connection is verified with a short ping so misconfiguration fails at
// startup rather than on the first scan.
func NewCachedSource(source Source, cfg CacheConfig, logger *zap.Logger) (*CachedSource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect record cache: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultCacheConfig().TTL
	}

	return &CachedSource{
		source: source,
		client: client,
		ttl:    ttl,
		logger: logger.With(zap.String("component", "record_cache")),
	}, nil
}

// Get implements Source. Cache failures degrade to the backing source; a
// broken cache must never block a scan.
func (c *CachedSource) Get(ctx context.Context, entity string) (Record, bool, error) {
	key := cacheKeyPrefix + entity

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var rec Record
		if jsonErr := json.Unmarshal(data, &rec); jsonErr == nil {
			return rec, true, nil
		}
		c.logger.Warn("corrupt cache entry, falling through", zap.String("entity", entity))
	} else if err != redis.Nil {
		c.logger.Warn("record cache read failed", zap.String("entity", entity), zap.Error(err))
	}

	rec, ok, err := c.source.Get(ctx, entity)
	if err != nil || !ok {
		return rec, ok, err
	}

	if payload, jsonErr := json.Marshal(rec); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.logger.Warn("record cache write failed", zap.String("entity", entity), zap.Error(setErr))
		}
	}
	return rec, true, nil
}

// List implements Source by delegating to the backing source.
func (c *CachedSource) List(ctx context.Context) ([]string, error) {
	return c.source.List(ctx)
}

// All implements Source by delegating to the backing source. Full-database
// scans bypass the cache: caching the whole record set per entry would just
// duplicate the source.
func (c *CachedSource) All(ctx context.Context) (map[string]Record, error) {
	return c.source.All(ctx)
}

// Invalidate drops the cached entry for an entity, e.g. after a Store.Put.
func (c *CachedSource) Invalidate(ctx context.Context, entity string) error {
	return c.client.Del(ctx, cacheKeyPrefix+entity).Err()
}

// Close releases the redis connection.
func (c *CachedSource) Close() error {
	return c.client.Close()
}
