// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/problem-analyzer-api/internal/handlers"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/middleware"
)

// Setup creates and configures the Gin router with all routes.
// analyzeRateLimit is the hourly per-client limit shared by uploads and
// streamed messages; zero disables it. Setup installs the limiter on h.
func Setup(h *handlers.Handler, allowedOrigins []string, analyzeRateLimit int) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(allowedOrigins))

	rateLimiter := middleware.NewRateLimiter(analyzeRateLimit)
	h.Limiter = rateLimiter

	r.GET("/health", h.HealthCheck)

	// API Documentation
	r.GET("/docs", h.ServeSwaggerUI)
	r.GET("/docs/openapi.yaml", h.ServeOpenAPISpec)

	// Analysis endpoints — each upload or streamed message costs one
	// completion call. The handshake itself is free; StreamAnalyze charges
	// the shared limiter per message.
	r.GET("/ws/analyze", h.StreamAnalyze)
	r.POST("/analyze-file", rateLimiter.RateLimit(), h.AnalyzeFile)

	r.GET("/reports/:filename", h.GetReport)

	return r
}
