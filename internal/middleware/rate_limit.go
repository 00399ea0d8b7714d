package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP. Entries idle for longer
// than three windows are pruned on the next lookup.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	window   time.Duration
	max      int
	lastSeen time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(window time.Duration, max int) *RateLimiter {
	return &RateLimiter{
		clients: map[string]*clientLimiter{},
		window:  window,
		max:     max,
	}
}

func (r *RateLimiter) allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.Sub(r.lastSeen) > r.window {
		r.prune(now)
	}
	r.lastSeen = now

	client, ok := r.clients[ip]
	if !ok {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(r.window/time.Duration(r.max)), r.max),
		}
		r.clients[ip] = client
	}
	client.lastSeen = now
	return client.limiter.Allow()
}

func (r *RateLimiter) prune(now time.Time) {
	for ip, client := range r.clients {
		if now.Sub(client.lastSeen) > 3*r.window {
			delete(r.clients, ip)
		}
	}
}

// Middleware rejects over-limit requests with 429 and the error shape the
// mobile client already understands.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "RATE_LIMIT_EXCEEDED",
				"message": "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}

// The three request tiers: regular lookups, external API fetches, and bulk
// imports, strictest last.
func GeneralRateLimiter() gin.HandlerFunc {
	return NewRateLimiter(15*time.Minute, 100).Middleware()
}

func ExternalAPIRateLimiter() gin.HandlerFunc {
	return NewRateLimiter(15*time.Minute, 50).Middleware()
}

func BulkImportRateLimiter() gin.HandlerFunc {
	return NewRateLimiter(time.Hour, 5).Middleware()
}
