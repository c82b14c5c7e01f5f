package httpkit

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"county_lookup/platform/apperr"
	"county_lookup/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// IPRateLimiter manages per-IP token buckets in process memory.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter creates a new IP-based rate limiter.
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	limiter, _ := i.limiters.LoadOrStore(ip, rate.NewLimiter(i.rate, i.burst))
	return limiter.(*rate.Limiter)
}

// Allow implements Limiter.
func (i *IPRateLimiter) Allow(_ context.Context, ip string) (bool, error) {
	return i.getLimiter(ip).Allow(), nil
}

// RedisRateLimiter is a fixed-window counter shared by every proxy instance
// pointing at the same Redis.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

// NewRedisRateLimiter allows burst requests per window, where the window is
// the time the token bucket equivalent would need to refill: burst / rps.
func NewRedisRateLimiter(client *redis.Client, rps float64, burst int) *RedisRateLimiter {
	window := time.Duration(math.Ceil(float64(burst)/rps*1000)) * time.Millisecond
	if window < time.Second {
		window = time.Second
	}
	return &RedisRateLimiter{
		client: client,
		limit:  int64(burst),
		window: window,
		prefix: "county_lookup:ratelimit:",
	}
}

// Window returns the counting window.
func (r *RedisRateLimiter) Window() time.Duration {
	return r.window
}

// Allow implements Limiter.
func (r *RedisRateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	key := r.prefix + ip

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("incr rate counter: %w", err)
	}
	if count == 1 {
		if err := r.client.PExpire(ctx, key, r.window).Err(); err != nil {
			return false, fmt.Errorf("expire rate counter: %w", err)
		}
	}

	return count <= r.limit, nil
}

// OpenRedis parses a redis:// URL and verifies the connection.
func OpenRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RateLimit returns a middleware that rate limits by client IP.
// Limiter failures are logged and the request is let through.
func RateLimit(limiter Limiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		ip := c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			if log != nil {
				log.WithContext(c.Request.Context()).Warn("rate limiter unavailable", "error", err)
			}
			c.Next()
			return
		}

		if !allowed {
			if log != nil {
				log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			HandleError(c, apperr.New(apperr.KindRateLimited, "rate limit exceeded"))
			return
		}

		c.Next()
	}
}
