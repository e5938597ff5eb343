// Package main is the entry point for the Problem Analyzer API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/problem-analyzer-api/internal/config"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/handlers"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/router"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/analysis"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/report"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/session"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/storage"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/webhook"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 Problem Analyzer API %s starting...", Version)

	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	log.Printf("📋 Config loaded: port=%s, gin_mode=%s, rate_limit=%d/h", cfg.Port, cfg.GinMode, cfg.AnalyzeRateLimit)
	gin.SetMode(cfg.GinMode)

	// Step 2: Prepare the report directory
	store, err := report.NewStore(config.ReportDir)
	if err != nil {
		log.Fatalf("❌ Failed to prepare report directory: %v", err)
	}
	log.Printf("📂 Reports stored in %s", store.Dir())

	// Step 3: Create Services
	requester := analysis.NewRequester(analysis.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
	})
	if requester.Configured() {
		log.Printf("✅ Analysis enabled (model %s)", analysis.Model)
	} else {
		// Requests still reach the server and fail with a configuration error.
		log.Println("⚠️  Analysis disabled (set OPENAI_API_KEY to enable)")
	}

	orch := session.New(requester, report.NewRenderer(store))

	// Report webhooks
	webhookService := webhook.New(cfg.WebhookURLs, cfg.WebhookSecret)
	if webhookService.Enabled() {
		orch.AddListener(webhookService)
		log.Printf("✅ Report webhooks enabled (%d receivers)", webhookService.Receivers())
	}

	// Optional object-storage mirror
	var mirror *storage.Mirror
	if cfg.Minio.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		mirror, err = storage.NewMirror(ctx, storage.Config{
			Endpoint:  cfg.Minio.Endpoint,
			Region:    cfg.Minio.Region,
			Bucket:    cfg.Minio.Bucket,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
		})
		cancel()
		if err != nil {
			log.Fatalf("❌ Failed to connect to MinIO: %v", err)
		}
		orch.AddListener(mirror)
		log.Printf("✅ Report mirror enabled (bucket %s)", cfg.Minio.Bucket)
	}

	// Step 4: Setup HTTP Router
	h := handlers.NewHandler(orch, store)
	h.Version = Version
	h.CompletionConfigured = requester.Configured()
	h.Webhooks = webhookService.Receivers()
	h.Mirror = mirror != nil

	r := router.Setup(h, cfg.AllowedOrigins, cfg.AnalyzeRateLimit)

	// Step 5: Start the HTTP Server
	// WriteTimeout is left unset: WebSocket sessions are long-lived and a
	// single analysis can take well over a minute.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 6: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	// Signal webhook service to stop pending deliveries
	webhookService.Shutdown()
	log.Println("⏳ Webhook deliveries stopped")

	if mirror != nil {
		mirror.Wait()
		log.Println("⏳ Report mirror uploads finished")
	}

	log.Println("👋 Server stopped. Goodbye!")
}
