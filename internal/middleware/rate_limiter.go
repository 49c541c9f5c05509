package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/NivedanR/capstone-erp/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// limiter is a fixed-window per-IP counter. Windows reset lazily on the next
// request after expiry; a background sweep drops IPs that stopped coming back.
type limiter struct {
	mu      sync.Mutex
	entries map[string]*window
	limit   int
	period  time.Duration
	message string
}

type window struct {
	count int
	until time.Time
}

const sweepInterval = 5 * time.Minute

func newLimiter(limit int, period time.Duration, message string) *limiter {
	l := &limiter{
		entries: make(map[string]*window),
		limit:   limit,
		period:  period,
		message: message,
	}
	go l.sweep()
	return l
}

func (l *limiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.entries[ip]
	if !ok || now.After(w.until) {
		w = &window{until: now.Add(l.period)}
		l.entries[ip] = w
	}
	w.count++
	return w.count <= l.limit, w.until
}

func (l *limiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		swept := 0
		for ip, w := range l.entries {
			if now.After(w.until) {
				delete(l.entries, ip)
				swept++
			}
		}
		remaining := len(l.entries)
		l.mu.Unlock()

		if swept > 0 {
			log.Debug().
				Int("swept", swept).
				Int("remaining", remaining).
				Msg("rate limiter entries swept")
		}
	}
}

func (l *limiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, until := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", until.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.message))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter caps login attempts at 20 per minute per IP to slow down
// credential stuffing.
func LoginRateLimiter() gin.HandlerFunc {
	return newLimiter(20, time.Minute, "too many login attempts, try again in a minute").middleware()
}

// RateLimiter caps requests per IP across the whole API.
func RateLimiter(limit int, period time.Duration) gin.HandlerFunc {
	return newLimiter(limit, period, "too many requests, try again shortly").middleware()
}
