// Package redis holds the Redis-backed payload cache for dataset sources.
package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/InsightBoard/internal/config"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/pkg/errors"
)

// Redis deployment modes accepted by config.CacheConfig.Mode.
const (
	ModeStandalone = "standalone"
	ModeSentinel   = "sentinel"
	ModeCluster    = "cluster"
)

var (
	ErrClientClosed     = errors.New(errors.ErrCodeCacheError, "redis client is closed")
	ErrConnectionFailed = errors.New(errors.ErrCodeCacheError, "redis connection failed")
)

// Client wraps a go-redis UniversalClient with a close guard.
type Client struct {
	rdb    redis.UniversalClient
	cfg    config.CacheConfig
	logger logging.Logger

	mu     sync.RWMutex
	closed bool
}

// NewClient connects according to cfg.Mode and verifies the connection with
// a PING.  The client is closed again if the ping fails.
func NewClient(cfg config.CacheConfig, log logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	applyDefaults(&cfg)

	var rdb redis.UniversalClient
	switch cfg.Mode {
	case ModeCluster:
		rdb = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        clusterAddrs(cfg),
			Password:     cfg.Password,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		})
	case ModeSentinel:
		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    cfg.MasterName,
			SentinelAddrs: cfg.Addrs,
			Password:      cfg.Password,
			DB:            cfg.DB,
			PoolSize:      cfg.PoolSize,
			DialTimeout:   cfg.DialTimeout,
			ReadTimeout:   cfg.ReadTimeout,
			WriteTimeout:  cfg.WriteTimeout,
		})
	default:
		if cfg.Mode != "" && cfg.Mode != ModeStandalone {
			log.Warn("invalid redis mode, defaulting to standalone", logging.String("mode", cfg.Mode))
		}
		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		})
	}

	c := NewClientFromUniversal(rdb, cfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, ErrConnectionFailed.WithCause(err)
	}

	log.Info("redis client connected",
		logging.String("mode", cfg.Mode),
		logging.String("addr", cfg.Addr),
	)
	return c, nil
}

// NewClientFromUniversal wraps an already constructed client without pinging.
func NewClientFromUniversal(rdb redis.UniversalClient, cfg config.CacheConfig, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{rdb: rdb, cfg: cfg, logger: log}
}

func applyDefaults(cfg *config.CacheConfig) {
	if cfg.PoolSize == 0 {
		cfg.PoolSize = config.DefaultCachePoolSize
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 3 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 3 * time.Second
	}
}

func clusterAddrs(cfg config.CacheConfig) []string {
	if len(cfg.Addrs) > 0 {
		return cfg.Addrs
	}
	return []string{cfg.Addr}
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	return c.rdb.Ping(ctx).Err()
}

// HealthCheck is Ping with a cache error code, for readiness checks.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis health check failed")
	}
	return nil
}

// Close releases the connection pool.  Subsequent calls are no-ops.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.logger.Info("redis client closed")
	return c.rdb.Close()
}

// Underlying exposes the go-redis client for commands not wrapped here.
func (c *Client) Underlying() redis.UniversalClient {
	return c.rdb
}

// Get returns the raw value at key.  A missing key yields redis.Nil.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}
	return c.rdb.Get(ctx, key).Bytes()
}

// Set stores value at key with the given expiry; zero means no expiry.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// SetNX stores value only when key is absent.
func (c *Client) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if c.isClosed() {
		return false, ErrClientClosed
	}
	return c.rdb.SetNX(ctx, key, value, ttl).Result()
}

// Del removes keys and returns how many existed.
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	if c.isClosed() {
		return 0, ErrClientClosed
	}
	return c.rdb.Del(ctx, keys...).Result()
}

// TTL returns the remaining lifetime of key.
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	if c.isClosed() {
		return 0, ErrClientClosed
	}
	return c.rdb.TTL(ctx, key).Result()
}

// Eval runs a Lua script.
func (c *Client) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}
	return c.rdb.Eval(ctx, script, keys, args...).Result()
}

//Personal.AI order the ending
