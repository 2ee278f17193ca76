package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// fixedKey charges every request to the same bucket
func fixedKey(key string) KeyFunc {
	return func(c *gin.Context) (string, bool) { return key, true }
}

func setupTestRouter(redisClient *redis.Client, config *RateLimiterConfig, keyFn KeyFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimiterMiddleware(redisClient, config, keyFn))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	return router
}

func doGet(router http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/test", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowRequestsUnderLimit(t *testing.T) {
	_, client := setupTestRedis(t)
	router := setupTestRouter(client, &RateLimiterConfig{Capacity: 5, RefillRate: 0.01}, fixedKey("rate_limiter:user:1"))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doGet(router, "").Code, "Request %d should succeed", i+1)
	}
}

func TestRateLimiter_DenyRequestsOverLimit(t *testing.T) {
	_, client := setupTestRedis(t)
	router := setupTestRouter(client, &RateLimiterConfig{Capacity: 3, RefillRate: 0.01}, fixedKey("rate_limiter:user:1"))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doGet(router, "").Code, "Request %d should succeed", i+1)
	}

	w := doGet(router, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded")
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	_, client := setupTestRedis(t)
	router := setupTestRouter(client, &RateLimiterConfig{Capacity: 2, RefillRate: 4.0}, fixedKey("rate_limiter:user:1"))

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, doGet(router, "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, doGet(router, "").Code)

	// 4 tokens/sec: half a second refills both tokens
	time.Sleep(600 * time.Millisecond)

	assert.Equal(t, http.StatusOK, doGet(router, "").Code, "Request should succeed after token refill")
}

func TestRateLimiter_SeparateBucketsPerClientIP(t *testing.T) {
	_, client := setupTestRedis(t)
	router := setupTestRouter(client, &RateLimiterConfig{Capacity: 2, RefillRate: 0.01}, ByClientIP)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, doGet(router, "203.0.113.1:5000").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, doGet(router, "203.0.113.1:5000").Code)

	assert.Equal(t, http.StatusOK, doGet(router, "203.0.113.2:5000").Code, "Other clients keep their own bucket")
}

func TestRateLimiter_MissingSubject(t *testing.T) {
	_, client := setupTestRedis(t)
	router := setupTestRouter(client, DefaultRateLimiterConfig(), func(c *gin.Context) (string, bool) {
		return "", false
	})

	w := doGet(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiter_RedisFailure_FailOpen(t *testing.T) {
	mr, client := setupTestRedis(t)
	router := setupTestRouter(client, CustomRateLimiter(1, 0.01), fixedKey("rate_limiter:user:1"))
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doGet(router, "").Code)
	}
}

func TestRateLimiter_BucketExpires(t *testing.T) {
	mr, client := setupTestRedis(t)
	router := setupTestRouter(client, &RateLimiterConfig{Capacity: 10, RefillRate: 1.0}, fixedKey("rate_limiter:ip:10.0.0.1"))

	require.Equal(t, http.StatusOK, doGet(router, "").Code)

	assert.True(t, mr.Exists("rate_limiter:ip:10.0.0.1"))
	assert.Equal(t, 20*time.Second, mr.TTL("rate_limiter:ip:10.0.0.1"))
}

func TestRateLimiterKeys(t *testing.T) {
	assert.Equal(t, "rate_limiter:user:100", UserRateLimiterKey(100))
	assert.Equal(t, "rate_limiter:user:0", UserRateLimiterKey(0))
	assert.Equal(t, "rate_limiter:ip:192.168.1.10", IPRateLimiterKey("192.168.1.10"))
}

func TestRateLimiterPresets(t *testing.T) {
	config := DefaultRateLimiterConfig()
	require.NotNil(t, config)
	assert.Equal(t, 20, config.Capacity)
	assert.Equal(t, 10.0, config.RefillRate)

	assert.Equal(t, config, ModerateRateLimiter())
	assert.Equal(t, 5, StrictRateLimiter().Capacity)
	assert.Equal(t, &RateLimiterConfig{Capacity: 100, RefillRate: 50}, GenerousRateLimiter())
	assert.Equal(t, &RateLimiterConfig{Capacity: 7, RefillRate: 1.5}, CustomRateLimiter(7, 1.5))
}
