package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/apierror"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/logger"
)

// RateLimiter limits requests per client IP within a fixed window
type RateLimiter struct {
	requests map[string]*clientInfo
	mu       sync.Mutex
	rate     int
	window   time.Duration
	name     string
}

type clientInfo struct {
	count    int
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter allowing rate requests per window.
// name identifies the limiter in logs.
func NewRateLimiter(rate int, window time.Duration, name string) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string]*clientInfo),
		rate:     rate,
		window:   window,
		name:     name,
	}
	go rl.cleanup()
	return rl
}

// cleanup drops stale entries so the map does not grow unbounded
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, info := range rl.requests {
			if now.Sub(info.lastSeen) > rl.window*2 {
				delete(rl.requests, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) allow(ip string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	info, exists := rl.requests[ip]
	if !exists || now.Sub(info.lastSeen) > rl.window {
		rl.requests[ip] = &clientInfo{count: 1, lastSeen: now}
		return true, 1
	}

	info.count++
	info.lastSeen = now
	return info.count <= rl.rate, info.count
}

// RateLimit returns the general per-IP limiter: 120 requests per minute.
func RateLimit() gin.HandlerFunc {
	return limitWith(NewRateLimiter(120, time.Minute, "general"))
}

// RateLimitAnalysis returns a stricter limiter for the recompute endpoints,
// which fan out source reads and upserts: 10 requests per minute.
func RateLimitAnalysis() gin.HandlerFunc {
	return limitWith(NewRateLimiter(10, time.Minute, "analysis"))
}

func limitWith(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed, count := limiter.allow(ip)
		if !allowed {
			logger.Ctx(c.Request.Context()).Warn("rate limit exceeded",
				logger.String("limiter", limiter.name),
				logger.String("client_ip", ip),
				logger.Int("request_count", count),
				logger.Int("limit", limiter.rate),
			)
			retryAfter := int(limiter.window.Seconds())
			apierror.WriteProblem(c, apierror.NewRateLimitError(apierror.GetRequestID(c), retryAfter))
			c.Abort()
			return
		}

		c.Next()
	}
}
