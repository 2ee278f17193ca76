package middleware

// StrictRateLimiter guards credential endpoints.
// Burst: 5 requests, sustained: 1 request per 10 seconds
func StrictRateLimiter() *RateLimiterConfig {
	return &RateLimiterConfig{
		Capacity:   5,
		RefillRate: 0.1,
	}
}

// ModerateRateLimiter is the default for authenticated endpoints.
func ModerateRateLimiter() *RateLimiterConfig {
	return DefaultRateLimiterConfig()
}

// GenerousRateLimiter suits read-heavy endpoints such as exports and listings.
// Burst: 100 requests, sustained: 50 requests per second
func GenerousRateLimiter() *RateLimiterConfig {
	return &RateLimiterConfig{
		Capacity:   100,
		RefillRate: 50.0,
	}
}

// CustomRateLimiter: CustomRateLimiter(5, 2.0) = 5 burst, 2 req/sec
func CustomRateLimiter(capacity int, refillRate float64) *RateLimiterConfig {
	return &RateLimiterConfig{
		Capacity:   capacity,
		RefillRate: refillRate,
	}
}
