package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
)

// limiterIdleTTL is how long an IP may stay silent before its bucket is
// dropped. A full bucket refills well within it.
const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP. Idle buckets are
// swept on access, at most once per limiterIdleTTL.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	every     rate.Limit
	burst     int
	log       *zap.Logger
	now       func() time.Time
	lastSweep time.Time
}

// NewRateLimiter allows perMinute requests per minute and IP, with bursts
// of the same size.
func NewRateLimiter(perMinute int, log *zap.Logger) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RateLimiter{
		limiters:  make(map[string]*ipLimiter),
		every:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     perMinute,
		log:       log,
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

func (r *RateLimiter) limiter(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= limiterIdleTTL {
		r.sweep(now)
	}

	l, ok := r.limiters[ip]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(r.every, r.burst)}
		r.limiters[ip] = l
	}
	l.lastSeen = now
	return l.limiter
}

// sweep drops buckets not used for limiterIdleTTL. Callers hold mu.
func (r *RateLimiter) sweep(now time.Time) {
	for ip, l := range r.limiters {
		if now.Sub(l.lastSeen) >= limiterIdleTTL {
			delete(r.limiters, ip)
		}
	}
	r.lastSweep = now
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !r.limiter(ip).Allow() {
			r.log.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			httperr.TooManyRequests(c, "rate_limited", "too many requests, try again later")
			return
		}
		c.Next()
	}
}
