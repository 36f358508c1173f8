package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modassist/core/internal/pkg/response"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 3 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit enforces a per-IP token bucket. Entries for idle IPs are evicted
// lazily so the map stays bounded without a background goroutine.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}

	var mu sync.Mutex
	limiters := make(map[string]*ipLimiter)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		mu.Lock()
		now := time.Now()
		entry, ok := limiters[ip]
		if !ok {
			entry = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			limiters[ip] = entry
		}
		entry.lastSeen = now
		if len(limiters) > 1024 {
			for key, item := range limiters {
				if now.Sub(item.lastSeen) > limiterIdleTTL {
					delete(limiters, key)
				}
			}
		}
		allowed := entry.limiter.Allow()
		mu.Unlock()

		if !allowed {
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
