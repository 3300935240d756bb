package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/turtacn/ayush-docknet/pkg/errors"
)

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	// KeyFunc picks the bucket of a request; defaults to the client IP.
	KeyFunc   func(c *gin.Context) string
	SkipPaths []string
	// IdleTTL drops buckets unused for this long; zero keeps them forever.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns 10 rps with a burst of 20 per client.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		Burst:             20,
		SkipPaths:         []string{"/healthz", "/readyz", "/metrics"},
		IdleTTL:           10 * time.Minute,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per key.
type Limiter struct {
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
	visitors map[string]*visitor
	now      func() time.Time
	lastScan time.Time
}

// NewLimiter returns a Limiter allowing rps sustained requests and burst
// extra per key.
func NewLimiter(rps float64, burst int, idleTTL time.Duration) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  idleTTL,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Allow takes one token from key's bucket.  When none is left it returns
// how long until the next one.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictLocked(now)
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}

// Len is the number of live buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *Limiter) evictLocked(now time.Time) {
	if l.idleTTL <= 0 || now.Sub(l.lastScan) < l.idleTTL {
		return
	}
	l.lastScan = now
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.idleTTL {
			delete(l.visitors, k)
		}
	}
}

// RateLimit rejects requests over the per-client budget with 429 and a
// Retry-After header.
func RateLimit(l *Limiter, cfg RateLimitConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}
	key := cfg.KeyFunc
	if key == nil {
		key = func(c *gin.Context) string { return c.ClientIP() }
	}
	limit := strconv.Itoa(l.burst)

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", limit)
		ok, wait := l.Allow(key(c))
		if ok {
			c.Next()
			return
		}
		secs := int(math.Ceil(wait.Seconds()))
		if secs < 1 {
			secs = 1
		}
		c.Header("X-RateLimit-Remaining", "0")
		c.Header("Retry-After", strconv.Itoa(secs))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"code":    errors.ErrCodeTooManyRequests,
			"message": "rate limit exceeded, retry later",
		})
	}
}
