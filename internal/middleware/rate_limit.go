// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientEntry pairs a token bucket with the last time the client was seen,
// so idle entries can be evicted.
type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps a token bucket per client IP. Entries idle longer
// than idleEvictAfter are dropped by a background sweep.
type IPRateLimiter struct {
	mtx     sync.Mutex
	clients map[string]*clientEntry
	limit   rate.Limit
	burst   int
}

const (
	sweepInterval  = time.Minute
	idleEvictAfter = 3 * time.Minute
)

func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	rl := &IPRateLimiter{
		clients: make(map[string]*clientEntry),
		limit:   limit,
		burst:   burst,
	}
	go rl.sweep()
	return rl
}

func (rl *IPRateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	for range ticker.C {
		rl.mtx.Lock()
		for ip, entry := range rl.clients {
			if time.Since(entry.lastSeen) > idleEvictAfter {
				delete(rl.clients, ip)
			}
		}
		rl.mtx.Unlock()
	}
}

func (rl *IPRateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	entry, ok := rl.clients[ip]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (rl *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please slow down and try again.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Shared limiters, tuned for a single-shop storefront: browsing is cheap,
// but credential attempts, mockup uploads, and checkout submissions get
// much tighter budgets.
var (
	generalLimiter  = NewIPRateLimiter(rate.Every(time.Second), 20)
	authLimiter     = NewIPRateLimiter(rate.Every(12*time.Second), 5)
	uploadLimiter   = NewIPRateLimiter(rate.Every(6*time.Second), 10)
	checkoutLimiter = NewIPRateLimiter(rate.Every(12*time.Second), 5)
)

func GeneralRateLimit() gin.HandlerFunc  { return generalLimiter.Middleware() }
func AuthRateLimit() gin.HandlerFunc     { return authLimiter.Middleware() }
func UploadRateLimit() gin.HandlerFunc   { return uploadLimiter.Middleware() }
func CheckoutRateLimit() gin.HandlerFunc { return checkoutLimiter.Middleware() }
