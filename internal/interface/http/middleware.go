package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/activity-finder/internal/infra/config"
)

// errorHandlingMiddleware renders the last recorded error as
// {"error":{"code","message"}}. Client errors log at warn, server errors at error.
func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		level := slog.LevelWarn
		if httpErr.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			"code", httpErr.Code,
			"status", httpErr.Status,
			"route", c.FullPath(),
			"error", httpErr.Err,
		)

		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":    httpErr.Code,
				"message": httpErr.Message,
			},
		})
	}
}

// rateLimitMiddleware throttles the suggestion API per client IP. Each call
// can trigger an LLM completion and a round of place lookups.
func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	buckets := newBucketSet(float64(cfg.RequestsPerMinute), float64(max(cfg.Burst, 1)))
	retryAfter := strconv.Itoa(int(math.Ceil(60 / float64(cfg.RequestsPerMinute))))
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if buckets.take(ip, time.Now()) {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", "ip", ip, "route", c.FullPath())
		c.Header("Retry-After", retryAfter)
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests", nil))
	}
}

const (
	bucketIdleTTL    = 5 * time.Minute
	bucketSweepEvery = time.Minute
)

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// bucketSet is a token bucket per client key, refilled continuously.
type bucketSet struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	perMinute float64
	capacity  float64
	lastSweep time.Time
}

func newBucketSet(perMinute, capacity float64) *bucketSet {
	return &bucketSet{
		buckets:   make(map[string]*bucket),
		perMinute: perMinute,
		capacity:  capacity,
	}
}

// take spends one token from key's bucket and reports whether one was available.
func (s *bucketSet) take(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= bucketSweepEvery {
		s.sweepLocked(now)
		s.lastSweep = now
	}

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{tokens: s.capacity, lastSeen: now}
		s.buckets[key] = b
	} else if elapsed := now.Sub(b.lastSeen).Minutes(); elapsed > 0 {
		b.tokens = math.Min(s.capacity, b.tokens+elapsed*s.perMinute)
		b.lastSeen = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (s *bucketSet) sweepLocked(now time.Time) {
	for key, b := range s.buckets {
		if now.Sub(b.lastSeen) > bucketIdleTTL {
			delete(s.buckets, key)
		}
	}
}
