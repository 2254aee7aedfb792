package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/InsightBoard/internal/domain/dataset"
	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
)

// CachedSource decorates a dataset.Source with a Redis copy of its payload.
//
// A hit is served from Redis.  On a miss one caller per process loads the
// upstream (singleflight) and, across processes, the holder of a fill lock
// stores the result; other processes wait up to the lock wait for the value
// to appear before loading the upstream themselves.  Upstream errors are
// returned unchanged and nothing is cached for them.  Redis failures are
// logged and the upstream is used directly.
type CachedSource struct {
	upstream dataset.Source
	client   *Client
	logger   logging.Logger

	prefix   string
	ttl      time.Duration
	lockTTL  time.Duration
	lockWait time.Duration
	poll     time.Duration

	group singleflight.Group
}

// CacheOption configures a CachedSource.
type CacheOption func(*CachedSource)

// WithPrefix sets the key prefix.  Defaults to "insight:".
func WithPrefix(prefix string) CacheOption {
	return func(c *CachedSource) { c.prefix = prefix }
}

// WithTTL sets how long a cached payload lives.  Defaults to 5 minutes.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CachedSource) { c.ttl = ttl }
}

// WithFillLock tunes the cross-process fill lock: its expiry, how long a
// loser waits for the winner's value, and the poll interval while waiting.
func WithFillLock(ttl, wait, poll time.Duration) CacheOption {
	return func(c *CachedSource) {
		c.lockTTL = ttl
		c.lockWait = wait
		c.poll = poll
	}
}

// WithLogger sets the logger.
func WithLogger(log logging.Logger) CacheOption {
	return func(c *CachedSource) {
		if log != nil {
			c.logger = log
		}
	}
}

// NewCachedSource wraps upstream.
func NewCachedSource(upstream dataset.Source, client *Client, opts ...CacheOption) *CachedSource {
	c := &CachedSource{
		upstream: upstream,
		client:   client,
		logger:   logging.NewNopLogger(),
		prefix:   "insight:",
		ttl:      5 * time.Minute,
		lockTTL:  time.Minute,
		lockWait: 5 * time.Second,
		poll:     100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("cache").With(logging.String("source", upstream.Name()))
	return c
}

// Name reports the upstream name so metrics and events name the real origin.
func (c *CachedSource) Name() string { return c.upstream.Name() }

// Key returns the Redis key holding the payload.
func (c *CachedSource) Key() string {
	return c.prefix + "dataset:" + c.upstream.Name()
}

func (c *CachedSource) lockKey() string {
	return c.prefix + "lock:dataset:" + c.upstream.Name()
}

// Fetch implements dataset.Source.
func (c *CachedSource) Fetch(ctx context.Context) ([]record.Record, error) {
	if records, ok := c.lookup(ctx); ok {
		return records, nil
	}
	v, err, _ := c.group.Do(c.Key(), func() (interface{}, error) {
		return c.fill(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]record.Record), nil
}

// Invalidate drops the cached payload so the next Fetch reaches the upstream.
func (c *CachedSource) Invalidate(ctx context.Context) error {
	_, err := c.client.Del(ctx, c.Key())
	return err
}

func (c *CachedSource) lookup(ctx context.Context) ([]record.Record, bool) {
	data, err := c.client.Get(ctx, c.Key())
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache read failed", logging.Err(err))
		return nil, false
	}
	records, err := record.DecodeBytes(data)
	if err != nil {
		c.logger.Warn("cached payload unreadable, ignoring", logging.Err(err))
		return nil, false
	}
	c.logger.Debug("cache hit", logging.Int("records", len(records)))
	return records, true
}

func (c *CachedSource) fill(ctx context.Context) ([]record.Record, error) {
	mu := NewMutex(c.client, c.lockKey(), c.lockTTL)
	held, err := mu.TryLock(ctx)
	if err != nil {
		c.logger.Warn("fill lock unavailable", logging.Err(err))
		return c.upstream.Fetch(ctx)
	}
	if !held {
		if records, ok := c.await(ctx); ok {
			return records, nil
		}
		return c.upstream.Fetch(ctx)
	}
	defer func() {
		if err := mu.Unlock(context.WithoutCancel(ctx)); err != nil {
			c.logger.Warn("fill lock release failed", logging.Err(err))
		}
	}()

	records, err := c.upstream.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, records)
	return records, nil
}

// await polls for a value written by the process holding the fill lock.
func (c *CachedSource) await(ctx context.Context) ([]record.Record, bool) {
	deadline := time.NewTimer(c.lockWait)
	defer deadline.Stop()
	tick := time.NewTicker(c.poll)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, false
		case <-deadline.C:
			c.logger.Debug("fill lock wait expired")
			return nil, false
		case <-tick.C:
			if records, ok := c.lookup(ctx); ok {
				return records, true
			}
		}
	}
}

func (c *CachedSource) store(ctx context.Context, records []record.Record) {
	data, err := record.Encode(records)
	if err != nil {
		c.logger.Warn("encode payload for cache failed", logging.Err(err))
		return
	}
	if err := c.client.Set(ctx, c.Key(), data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", logging.Err(err))
		return
	}
	c.logger.Debug("cache filled", logging.Int("records", len(records)), logging.Duration("ttl", c.ttl))
}

//Personal.AI order the ending
