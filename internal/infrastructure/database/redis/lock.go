package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/InsightBoard/pkg/errors"
)

var ErrLockNotHeld = errors.New(errors.ErrCodeConflict, "lock not held by this owner")

var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var extendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// Mutex is a single-owner lock on one Redis key.  The owner token is random
// per Mutex, so only the instance that acquired the key can release it.
type Mutex struct {
	client *Client
	key    string
	token  string
	ttl    time.Duration
}

// NewMutex returns an unlocked Mutex on key.  The lock expires after ttl if
// its holder never releases it.
func NewMutex(client *Client, key string, ttl time.Duration) *Mutex {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Mutex{client: client, key: key, token: uuid.NewString(), ttl: ttl}
}

// Key returns the Redis key guarded by the mutex.
func (m *Mutex) Key() string { return m.key }

// TryLock makes a single acquisition attempt.
func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.key, m.token, m.ttl)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to set lock")
	}
	return ok, nil
}

// Unlock releases the key if this Mutex still owns it.
func (m *Mutex) Unlock(ctx context.Context) error {
	if m.client.isClosed() {
		return ErrClientClosed
	}
	res, err := unlockScript.Run(ctx, m.client.Underlying(), []string{m.key}, m.token).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to release lock")
	}
	if res == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// Extend resets the expiry to ttl.  It reports false when the lock was lost.
func (m *Mutex) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	if m.client.isClosed() {
		return false, ErrClientClosed
	}
	res, err := extendScript.Run(ctx, m.client.Underlying(), []string{m.key}, m.token, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to extend lock")
	}
	return res == 1, nil
}

//Personal.AI order the ending
