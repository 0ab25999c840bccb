package restapi

import (
	"net/http"
	"time"

	"token_balance/internal/app/port"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests above perSecond with a burst of burst.
// A non-positive rate disables limiting.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// RequestLogger logs every request at debug level and server errors at error level.
func RequestLogger(logger port.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", args...)
			return
		}
		logger.Debug("Request served", args...)
	}
}
