package server

import (
	"log/slog"
	"net/http"

	"docsummary/internal/ratelimiter"

	"github.com/gin-gonic/gin"
)

const (
	SummarizePath        = "/api/summarize"
	NetlifySummarizePath = "/.netlify/functions/summarize"
	UploadPath           = "/api/upload"
	StatsPath            = "/api/stats"
	HealthPath           = "/healthz"
)

// NewRouter wires handlers to a Gin engine. An empty apiKey or a nil limiter
// turns the matching guard off.
func NewRouter(apiKey string, limiter *ratelimiter.RateLimiter, h *Handler, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), WithRequestID(), WithRequestLog(log))

	r.GET(HealthPath, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	post := WithMethod(http.MethodPost)
	guard := WithAPIKey(apiKey)
	limit := WithRateLimit(limiter)

	// Every method is routed to the summarize paths so that non-POST requests
	// get 405 whatever their body or credentials.
	r.Any(SummarizePath, post, guard, limit, h.Summarize)
	r.Any(NetlifySummarizePath, post, guard, limit, h.Summarize)
	r.POST(UploadPath, guard, limit, h.Upload)
	r.GET(StatsPath, guard, h.Stats)

	return r
}
