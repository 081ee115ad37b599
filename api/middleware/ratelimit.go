package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/use-agent/distill/config"
	"github.com/use-agent/distill/models"
)

const (
	limiterIdleEviction = 1 * time.Hour
	limiterSweepEvery   = 5 * time.Minute
)

// limiterRegistry holds one token bucket per caller identity. Buckets idle
// past limiterIdleEviction are swept so the map stays bounded.
type limiterRegistry struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterRegistry(cfg config.RateLimitConfig) *limiterRegistry {
	r := &limiterRegistry{
		rps:     rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.Burst,
		buckets: make(map[string]*bucket),
	}
	go r.sweep()
	return r
}

func (r *limiterRegistry) allow(identity string) bool {
	r.mu.Lock()
	b, ok := r.buckets[identity]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(r.rps, r.burst)}
		r.buckets[identity] = b
	}
	b.lastSeen = time.Now()
	r.mu.Unlock()

	return b.limiter.Allow()
}

func (r *limiterRegistry) sweep() {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-limiterIdleEviction)
		r.mu.Lock()
		for id, b := range r.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(r.buckets, id)
			}
		}
		r.mu.Unlock()
	}
}

// RateLimit returns token-bucket rate limiting middleware. Callers are
// bucketed by API key when the auth middleware identified one, otherwise
// by client IP.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	registry := newLimiterRegistry(cfg)

	return func(c *gin.Context) {
		identity := c.ClientIP()
		if key, ok := c.Get("api_key"); ok {
			identity = key.(string)
		}

		if !registry.allow(identity) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.CleanResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeRateLimited,
					Message: "rate limit exceeded, please slow down",
				},
			})
			return
		}

		c.Next()
	}
}
