package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"artisan/internal/metrics"
	"artisan/internal/utils"
	"artisan/pkg/logger"

	"github.com/gin-gonic/gin"
)

const rateLimitWindow = time.Minute

// Counter is a windowed counter such as the Redis or in-memory cache.
type Counter interface {
	Increment(ctx context.Context, key string, expiration time.Duration) (int64, error)
}

// RateLimitMiddleware allows limit requests per client IP and route each
// minute. Counter failures let the request through.
func RateLimitMiddleware(counter Counter, limit int, m *metrics.Metrics, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || limit <= 0 {
			c.Next()
			return
		}

		route := c.FullPath()
		key := fmt.Sprintf("ratelimit:%s:%s", route, c.ClientIP())
		count, err := counter.Increment(c.Request.Context(), key, rateLimitWindow)
		if err != nil {
			log.WithError(err).WithField("route", route).Warn("Rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if count > int64(limit) {
			m.RateLimited(route)
			log.LogSecurityEvent("rate_limited", "low", map[string]interface{}{
				"route":      route,
				"ip_address": c.ClientIP(),
			})
			c.Header("Retry-After", strconv.Itoa(int(rateLimitWindow.Seconds())))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED", "Demasiadas solicitudes, inténtalo más tarde")
			c.Abort()
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(int64(limit)-count, 10))
		c.Next()
	}
}

// MetricsMiddleware records request counts and latency per route template.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
