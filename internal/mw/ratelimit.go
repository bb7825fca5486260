package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// DefaultLimiterIdle is how long a client's bucket survives without requests.
const DefaultLimiterIdle = 10 * time.Minute

// IPRateLimiter hands out one token bucket per client address. Buckets that see no
// traffic for the idle period are evicted, so the set of tracked clients stays bounded.
type IPRateLimiter struct {
	buckets *cache.Cache
	mu      sync.Mutex
	r       rate.Limit
	b       int
}

// NewIPRateLimiter creates a limiter allowing r requests per second with burst b.
func NewIPRateLimiter(r rate.Limit, b int, idle time.Duration) *IPRateLimiter {
	if idle <= 0 {
		idle = DefaultLimiterIdle
	}
	return &IPRateLimiter{buckets: cache.New(idle, idle), r: r, b: b}
}

// Limiter returns the bucket for ip, creating it on first use; every call pushes back
// its eviction.
func (l *IPRateLimiter) Limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lim *rate.Limiter
	if v, ok := l.buckets.Get(ip); ok {
		lim = v.(*rate.Limiter)
	} else {
		lim = rate.NewLimiter(l.r, l.b)
	}
	l.buckets.SetDefault(ip, lim)
	return lim
}

// Len returns the number of tracked addresses, including expired ones not yet swept.
func (l *IPRateLimiter) Len() int {
	return l.buckets.ItemCount()
}

// retryAfter is the wait, in whole seconds, for one token at rate r.
func retryAfter(r rate.Limit) string {
	return strconv.Itoa(int(math.Ceil(1 / float64(r))))
}

// RateLimiter is a middleware for IP-based rate limiting. A non-positive rate disables it.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	if r <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := NewIPRateLimiter(r, b, DefaultLimiterIdle)
	return func(c *gin.Context) {
		if !limiter.Limiter(c.ClientIP()).Allow() {
			c.Header("Retry-After", retryAfter(r))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
