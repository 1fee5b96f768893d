package middleware

import (
	"sync"
	"time"

	"github.com/chapool/go-docseal/internal/api/httperrors"
	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	defaultLimiterIdleTTL = 10 * time.Minute
	limiterSweepEvery     = 512
)

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	Clock             time2.Clock
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters holds one token bucket per client IP and forgets clients
// idle for longer than idleTTL.
type clientLimiters struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu      sync.Mutex
	clients map[string]*clientLimiter
	hits    uint64
}

func (l *clientLimiters) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	allowed := c.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%limiterSweepEvery == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.clients {
			if v.lastSeen.Before(cutoff) {
				delete(l.clients, k)
			}
		}
	}

	return allowed
}

// RateLimit rejects requests of a client (by real IP) exceeding the
// configured rate with 429. A non-positive rate or burst disables limiting.
func RateLimit(config RateLimitConfig) echo.MiddlewareFunc {
	if config.RequestsPerSecond <= 0 || config.Burst <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	if config.Clock == nil {
		config.Clock = time2.DefaultClock
	}

	limiters := &clientLimiters{
		limit:   rate.Limit(config.RequestsPerSecond),
		burst:   config.Burst,
		idleTTL: defaultLimiterIdleTTL,
		clients: map[string]*clientLimiter{},
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiters.allow(c.RealIP(), config.Clock.Now()) {
				return httperrors.ErrTooManyRequests
			}
			return next(c)
		}
	}
}
