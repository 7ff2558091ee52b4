package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "employee-directory/internal/transport/http/response"
)

// ipIdleTTL is how long a client's bucket survives without requests.
const ipIdleTTL = 10 * time.Minute

// RateLimit is one token bucket shared by all clients.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		tooMany(c)
	}
}

// RateLimitPerIP keeps one token bucket per client IP. Buckets idle for
// longer than ipIdleTTL are dropped.
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	b := newIPBuckets(rps, burst, ipIdleTTL, time.Now)
	return func(c *gin.Context) {
		if b.get(c.ClientIP()).Allow() {
			c.Next()
			return
		}
		tooMany(c)
	}
}

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

type ipBuckets struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	m         map[string]*ipBucket
}

func newIPBuckets(rps rate.Limit, burst int, ttl time.Duration, now func() time.Time) *ipBuckets {
	return &ipBuckets{rps: rps, burst: burst, ttl: ttl, now: now, lastSweep: now(), m: make(map[string]*ipBucket)}
}

func (b *ipBuckets) get(ip string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.now()
	if t.Sub(b.lastSweep) >= b.ttl {
		for k, e := range b.m {
			if t.Sub(e.seen) >= b.ttl {
				delete(b.m, k)
			}
		}
		b.lastSweep = t
	}
	e, ok := b.m[ip]
	if !ok {
		e = &ipBucket{lim: rate.NewLimiter(b.rps, b.burst)}
		b.m[ip] = e
	}
	e.seen = t
	return e.lim
}

func (b *ipBuckets) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.m)
}

func tooMany(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Error(http.StatusTooManyRequests, ""))
}
