package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/turtacn/InsightBoard/pkg/errors"
	"github.com/turtacn/InsightBoard/pkg/types/common"
)

// RateLimiter decides whether the caller identified by key may proceed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

// RateLimitInfo is the limiter state reported in response headers.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// bucketIdle is how long a bucket may go unused before it is dropped.
const bucketIdle = 10 * time.Minute

// TokenBucketLimiter keeps one in-memory token bucket per key.  Buckets idle
// for bucketIdle are swept on a later call.
type TokenBucketLimiter struct {
	rate      float64
	burst     int
	now       func() time.Time
	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	lastSweep time.Time
}

// NewTokenBucketLimiter allows rate requests per second per key with bursts
// of up to burst requests.
func NewTokenBucketLimiter(rate float64, burst int) *TokenBucketLimiter {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucketLimiter{
		rate:      rate,
		burst:     burst,
		now:       time.Now,
		buckets:   make(map[string]*tokenBucket),
		lastSweep: time.Now(),
	}
}

func (l *TokenBucketLimiter) bucket(key string, now time.Time) *tokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastSweep) >= bucketIdle {
		l.sweepLocked(now.Add(-bucketIdle))
		l.lastSweep = now
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: float64(l.burst), lastRefill: now}
		l.buckets[key] = b
	}
	return b
}

// Allow takes one token from key's bucket.
func (l *TokenBucketLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := l.now()
	b := l.bucket(key, now)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens = min(float64(l.burst), b.tokens+now.Sub(b.lastRefill).Seconds()*l.rate)
	b.lastRefill = now

	info := RateLimitInfo{
		Limit:   l.burst,
		ResetAt: now.Add(time.Duration(float64(time.Second) / l.rate)),
	}
	if b.tokens < 1 {
		return false, info
	}
	b.tokens--
	info.Remaining = int(b.tokens)
	return true, info
}

// Sweep drops buckets idle for longer than idle and returns how many remain.
func (l *TokenBucketLimiter) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked(l.now().Add(-idle))
	return len(l.buckets)
}

func (l *TokenBucketLimiter) sweepLocked(threshold time.Time) {
	for key, b := range l.buckets {
		b.mu.Lock()
		if b.lastRefill.Before(threshold) {
			delete(l.buckets, key)
		}
		b.mu.Unlock()
	}
}

// ClientIP keys requests by remote host.  chi's RealIP middleware has
// already applied X-Forwarded-For and X-Real-IP when it runs first.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit rejects requests over the limit with 429 and a Retry-After
// header.  A nil keyFunc keys by ClientIP.
func RateLimit(limiter RateLimiter, keyFunc func(*http.Request) string) func(http.Handler) http.Handler {
	if keyFunc == nil {
		keyFunc = ClientIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, info := limiter.Allow(keyFunc(r))

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt.Unix(), 10))
			if allowed {
				next.ServeHTTP(w, r)
				return
			}

			retry := int(time.Until(info.ResetAt).Seconds())
			if retry < 1 {
				retry = 1
			}
			h.Set("Retry-After", strconv.Itoa(retry))
			h.Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(common.ErrorDetail{
				Code:    string(errors.ErrCodeRateLimited),
				Message: errors.DefaultMessageForCode(errors.ErrCodeRateLimited),
			})
		})
	}
}

//Personal.AI order the ending
