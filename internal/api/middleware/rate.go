package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Idle clients are dropped from the limiter map so it does not grow with
// every address ever seen.
const evictAfter = 3 * time.Minute

// RateLimit caps the request rate per client IP. Responses over the cap
// use the same envelope as the API handlers.
func RateLimit(perSecond, burst int) gin.HandlerFunc {
	type visitor struct {
		limiter *rate.Limiter
		seen    time.Time
	}

	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
		sweep    = time.Now()
	)

	return func(c *gin.Context) {
		now := time.Now()

		mu.Lock()
		if now.Sub(sweep) > evictAfter {
			for ip, v := range visitors {
				if now.Sub(v.seen) > evictAfter {
					delete(visitors, ip)
				}
			}
			sweep = now
		}
		v, ok := visitors[c.ClientIP()]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
			visitors[c.ClientIP()] = v
		}
		v.seen = now
		mu.Unlock()

		if !v.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "too many requests",
			})
			return
		}
		c.Next()
	}
}
