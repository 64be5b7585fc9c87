package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"docsummary/internal/ratelimiter"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
	apiKeyHeader    = "x-api-key"
)

// WithMethod answers 405 to every method but the given one, ahead of any
// other guard on the route.
func WithMethod(method string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != method {
			c.Header("Allow", method)
			c.String(http.StatusMethodNotAllowed, msgMethodNotAllowed)
			c.Abort()
			return
		}

		c.Next()
	}
}

// WithAPIKey enforces the x-api-key header when key is non-empty.
func WithAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}

		if c.GetHeader(apiKeyHeader) != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}

		c.Next()
	}
}

// WithRateLimit spaces POST requests from the same client IP. A nil limiter
// disables it.
func WithRateLimit(rl *ratelimiter.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		if err := rl.Wait(c.Request.Context(), c.ClientIP()); err != nil {
			if errors.Is(err, ratelimiter.ErrLimitExceeded) {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error": "too many requests",
				})
				return
			}

			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}

		c.Next()
	}
}

// WithRequestID reuses an incoming X-Request-ID or assigns a new one.
func WithRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// WithRequestLog logs one record per request after it is served.
func WithRequestLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}

		log.Log(c.Request.Context(), level, "Request is served",
			"requestID", requestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"statusCode", status,
			"responseBytes", c.Writer.Size(),
			"durationMs", time.Since(start).Milliseconds())
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
