package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SVIGHNESH/MacQuiz/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit throttles a route using the injected limiter. The key is the
// authenticated caller when present, otherwise the client address, so
// login brute force and attempt spamming are both covered.
func RateLimit(limiter ratelimit.Limiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.FullPath() + "|" + clientKey(c)

		res := limiter.Allow(key, limit, window)
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(res.RetryAfterSeconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if caller := GetCaller(c); caller.UserID != 0 {
		return "user:" + strconv.FormatUint(uint64(caller.UserID), 10)
	}
	return "ip:" + c.ClientIP()
}
