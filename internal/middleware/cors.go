// cors.go configures Cross-Origin Resource Sharing (CORS).
//
// Browser clients are usually served from a different origin than the API,
// so every response carries CORS headers. The default "*" admits any origin.
package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns configured CORS middleware.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour, // Cache preflight responses
	}

	// gin-contrib/cors rejects "*" mixed with explicit origins or credentials,
	// so a wildcard switches to allow-all without credentials.
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}

	return cors.New(cfg)
}
