package middleware

import (
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"cnadmin/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

//go:embed rate_limiter.lua
var luaScript string

var tokenBucket = redis.NewScript(luaScript)

// RateLimiterConfig holds rate limiter configuration
type RateLimiterConfig struct {
	Capacity   int     // Maximum number of tokens (max requests)
	RefillRate float64 // Tokens refilled per second
}

// DefaultRateLimiterConfig returns default rate limiter settings
// 10 requests per second with burst capacity of 20
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Capacity:   20,
		RefillRate: 10.0,
	}
}

// KeyFunc picks the bucket a request is charged to. ok=false rejects the request.
type KeyFunc func(c *gin.Context) (key string, ok bool)

// ByClientIP charges requests to the client address.
func ByClientIP(c *gin.Context) (string, bool) {
	return IPRateLimiterKey(c.ClientIP()), true
}

// ByLoginUser charges requests to the logged in user.
func ByLoginUser(h *session.Helper) KeyFunc {
	return func(c *gin.Context) (string, bool) {
		userID, ok := h.UserID(c)
		if !ok {
			return "", false
		}
		return UserRateLimiterKey(userID), true
	}
}

// Scoped gives keyFn's buckets their own namespace, so one subject can be
// limited separately per route group.
func Scoped(scope string, keyFn KeyFunc) KeyFunc {
	return func(c *gin.Context) (string, bool) {
		key, ok := keyFn(c)
		if !ok {
			return "", false
		}
		return key + ":" + scope, true
	}
}

// RateLimiterMiddleware implements a token bucket in Redis. Redis failures let the request through.
func RateLimiterMiddleware(redisClient *redis.Client, config *RateLimiterConfig, keyFn KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := keyFn(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - no rate limit subject"})
			c.Abort()
			return
		}

		now := float64(time.Now().UnixMilli()) / 1000
		allowed, err := tokenBucket.Run(c.Request.Context(), redisClient, []string{key},
			config.Capacity,
			config.RefillRate,
			now,
		).Int64()
		if err != nil {
			logrus.WithError(err).WithField("key", key).Error("Failed to execute rate limiter script")
			c.Next()
			return
		}

		if allowed == 0 {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     fmt.Sprintf("Maximum %d requests allowed in a burst", config.Capacity),
				"retry_after": fmt.Sprintf("%.1f seconds", 1.0/config.RefillRate),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func UserRateLimiterKey(userID int64) string {
	return fmt.Sprintf("rate_limiter:user:%d", userID)
}

func IPRateLimiterKey(ip string) string {
	return "rate_limiter:ip:" + ip
}
