// stream.go handles the streaming analysis endpoint.
//
// GET /ws/analyze — WebSocket. Each text message is analyzed; the server
// answers with a "status" event followed by a "result" or "error" event.
package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Shimizu-Technology/problem-analyzer-api/internal/middleware"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/models"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/session"
)

// StreamAnalyze upgrades the request to a WebSocket and runs a session.
// GET /ws/analyze
func (h *Handler) StreamAnalyze(c *gin.Context) {
	// Upgrade writes its own HTTP error response on failure.
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️  WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if err := h.Orchestrator.Stream(c.Request.Context(), &wsConn{conn: conn, limiter: h.Limiter, clientIP: c.ClientIP()}); err != nil {
		log.Printf("⚠️  Streaming session ended with error: %v", err)
	}
}

// wsConn adapts a gorilla connection to session.Conn.
//
// Go Pattern: An adapter struct lets the session package stay free of any
// WebSocket library; tests drive it with an in-memory fake.
type wsConn struct {
	conn     *websocket.Conn
	limiter  *middleware.RateLimiter
	clientIP string
}

func (w *wsConn) ReadText() (string, error) {
	msgType, data, err := w.conn.ReadMessage()
	if err != nil {
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			return "", fmt.Errorf("%w: %v", session.ErrClosed, closeErr)
		}
		return "", err
	}
	if msgType != websocket.TextMessage {
		return "", session.ErrUnsupportedMessage
	}
	if w.limiter != nil && !w.limiter.Allow(w.clientIP) {
		return "", session.ErrRateLimited
	}
	return string(data), nil
}

func (w *wsConn) WriteEvent(e models.SessionEvent) error {
	return w.conn.WriteJSON(e)
}
