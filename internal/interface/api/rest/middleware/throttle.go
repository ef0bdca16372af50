package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookmark-api/internal/application/ports"
)

// Throttle limits requests per client IP and route. A nil limiter disables it;
// limiter errors let the request through.
func Throttle(limiter ports.RateLimiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		ok, retry, err := limiter.Allow(c.Request.Context(), c.FullPath()+":"+c.ClientIP())
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			c.AbortWithStatusJSON(
				http.StatusTooManyRequests,
				gin.H{"error": "too many requests"},
			)
			return
		}

		c.Next()
	}
}
