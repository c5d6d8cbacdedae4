package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(*gin.Context) string

// KeyByUserOrIP charges the account set by Auth, falling back to the client
// IP when the request is anonymous.
func KeyByUserOrIP() KeyFunc {
	return func(c *gin.Context) string {
		if uid, ok := UserID(c); ok {
			return "user:" + uid
		}
		return "ip:" + c.ClientIP()
	}
}

// KeyByIP charges the client IP. Used in front of login and registration,
// where no account is known yet.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "ip:" + c.ClientIP() }
}

const (
	defaultIdleTTL    = 10 * time.Minute
	defaultSweepEvery = 5000
	// noRefillRetry is advertised when the limiter never refills (rps 0).
	noRefillRetry = 60 * time.Second
)

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a process-local token bucket per key. Buckets idle for
// longer than the idle TTL are swept every defaultSweepEvery lookups.
type RateLimiter struct {
	name  string
	rps   rate.Limit
	burst int
	keyFn KeyFunc
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	lookups int
	idleTTL time.Duration
}

// NewRateLimiter returns a limiter refilling rps tokens per second up to
// burst (coerced to at least 1). name labels its 429s in metrics and logs.
func NewRateLimiter(name string, rps float64, burst int, keyFn KeyFunc) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		name:    name,
		rps:     rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		idleTTL: defaultIdleTTL,
	}
}

// limiter returns the bucket for key, creating it when absent. The sweep runs
// before the lookup so a stale bucket for key itself is replaced.
func (rl *RateLimiter) limiter(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= defaultSweepEvery {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.idleTTL {
				delete(rl.buckets, k)
			}
		}
		rl.lookups = 0
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.rps, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim
}

// take charges one token for key. When none is available it returns how long
// the caller should wait before retrying.
func (rl *RateLimiter) take(key string) (bool, time.Duration) {
	now := rl.now()
	res := rl.limiter(key, now).ReserveN(now, 1)
	if !res.OK() {
		return false, noRefillRetry
	}
	if d := res.DelayFrom(now); d > 0 {
		res.CancelAt(now)
		return false, d
	}
	return true, 0
}

// IsRateBypass reports whether IdempotencyValidator found a stored result for
// this request. Replays do not consume tokens.
func IsRateBypass(c *gin.Context) bool {
	v, _ := c.Get(ctxKeyRateBypass)
	b, _ := v.(bool)
	return b
}

// Handler rejects requests over the limit with 429 and a Retry-After header
// rounded up to whole seconds. Idempotent replays pass through untouched.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		key := rl.keyFn(c)
		allowed, wait := rl.take(key)
		if allowed {
			c.Next()
			return
		}

		httpRateLimited.WithLabelValues(rl.name).Inc()
		LoggerFrom(c).Warn().
			Str("limiter", rl.name).
			Str("key", key).
			Dur("retry_after", wait).
			Msg("rate limited")

		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "too_many_requests",
			"message":    "rate limit exceeded, retry later",
		})
	}
}

func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}
