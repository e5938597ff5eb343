// Package handlers contains HTTP handler functions for the API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, body, headers)
// - Response methods (JSON, String, Status)
// - Middleware data (c.Get/c.Set)
//
// Handlers stay thin: they translate HTTP (or WebSocket frames) into calls
// on the session orchestrator and map its errors back onto status codes.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Shimizu-Technology/problem-analyzer-api/internal/middleware"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/models"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/report"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/session"
)

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Instead of global
// variables or service locators, we pass dependencies explicitly.
// This makes testing easy — just create a Handler with fake dependencies.
type Handler struct {
	Orchestrator *session.Orchestrator
	Store        *report.Store
	Upgrader     websocket.Upgrader

	// Limiter charges one token per streamed message; nil disables it.
	Limiter *middleware.RateLimiter

	// Reported by the health check
	Version              string
	CompletionConfigured bool
	Webhooks             int
	Mirror               bool
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(orch *session.Orchestrator, store *report.Store) *Handler {
	return &Handler{
		Orchestrator: orch,
		Store:        store,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browsers send an Origin header on WebSocket handshakes; CORS
			// does not apply to them, so any origin is accepted here too.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		Version: "dev",
	}
}

// HealthCheck returns the API health status.
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:               "ok",
		Version:              h.Version,
		CompletionConfigured: h.CompletionConfigured,
		ReportDir:            h.Store.Dir(),
		Webhooks:             h.Webhooks,
		Mirror:               h.Mirror,
	})
}

// respondError writes err as a models.ErrorResponse using the session
// error classification.
func respondError(c *gin.Context, err error) {
	status, code, detail := session.Classify(err)
	c.JSON(status, models.ErrorResponse{
		Error:  code,
		Detail: detail,
		Code:   status,
	})
}
