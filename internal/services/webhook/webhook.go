// Package webhook sends notifications when a report has been created.
//
// Receivers are configured statically (REPORT_WEBHOOK_URLS). Every delivery
// runs in its own goroutine with a fixed retry schedule, so the analysis
// path never waits on a slow receiver.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Shimizu-Technology/problem-analyzer-api/internal/models"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/report"
)

// EventReportCompleted is sent for every stored report.
const EventReportCompleted = "report.completed"

// Payload is the JSON body posted to each receiver.
type Payload struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ReportData describes the report in a report.completed event.
type ReportData struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	Size        int64  `json:"size"`
}

// Service handles webhook notification delivery.
type Service struct {
	urls   []string
	secret string
	client *http.Client

	// retryDelays[i] is the wait before attempt i+1.
	retryDelays []time.Duration

	shutdownCh   chan struct{} // Signals pending deliveries to stop
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// New creates a webhook service for the given receiver URLs.
// An empty secret disables request signing.
func New(urls []string, secret string) *Service {
	return &Service{
		urls:   urls,
		secret: secret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		retryDelays: []time.Duration{0, 1 * time.Second, 5 * time.Second, 30 * time.Second},
		shutdownCh:  make(chan struct{}),
	}
}

// Enabled reports whether any receiver is configured.
func (s *Service) Enabled() bool {
	return len(s.urls) > 0
}

// Receivers returns the number of configured receivers.
func (s *Service) Receivers() int {
	return len(s.urls)
}

// Shutdown signals all pending webhook deliveries to stop and waits for
// them to return. Call this during graceful server shutdown.
func (s *Service) Shutdown() {
	s.shutdownOnce.Do(func() { close(s.shutdownCh) })
	s.wg.Wait()
}

// SignPayload creates an HMAC-SHA256 signature for a payload.
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// ReportCreated notifies every receiver about a new report.
func (s *Service) ReportCreated(ctx context.Context, artifact *report.Artifact, resp *models.AnalysisResponse) {
	s.NotifyEvent(ctx, EventReportCompleted, ReportData{
		ID:          artifact.ID,
		Filename:    artifact.Filename,
		DownloadURL: resp.DownloadURL,
		Size:        artifact.Size,
	})
}

// NotifyEvent sends an event to all receivers.
// Delivery happens asynchronously with retry logic.
func (s *Service) NotifyEvent(ctx context.Context, event string, data interface{}) {
	if !s.Enabled() {
		return
	}

	payloadJSON, err := json.Marshal(Payload{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("⚠️  Failed to marshal webhook payload: %v", err)
		return
	}

	for _, url := range s.urls {
		s.wg.Add(1)
		go func(url string) {
			defer s.wg.Done()
			s.deliverWithRetry(url, event, payloadJSON)
		}(url)
	}
}

// deliverWithRetry attempts delivery on the retry schedule and gives up
// early when the service shuts down.
func (s *Service) deliverWithRetry(url, event string, payloadJSON []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for attempt := 0; attempt < len(s.retryDelays); attempt++ {
		if attempt > 0 {
			select {
			case <-s.shutdownCh:
				log.Printf("⚠️  Webhook delivery aborted due to shutdown: %s → %s", event, url)
				return
			case <-ctx.Done():
				log.Printf("⚠️  Webhook delivery timed out: %s → %s", event, url)
				return
			case <-time.After(s.retryDelays[attempt]):
			}
		}

		statusCode, err := s.deliver(ctx, url, payloadJSON)
		if err == nil && statusCode >= 200 && statusCode < 300 {
			log.Printf("✅ Webhook delivered: %s → %s (attempt %d)", event, url, attempt+1)
			return
		}

		lastError := fmt.Sprintf("HTTP %d", statusCode)
		if err != nil {
			lastError = err.Error()
		}
		log.Printf("⚠️  Webhook delivery failed (attempt %d/%d): %s → %s: %s",
			attempt+1, len(s.retryDelays), event, url, lastError)
	}

	log.Printf("❌ Webhook delivery failed permanently: %s → %s", event, url)
}

// deliver sends a single webhook HTTP request.
func (s *Service) deliver(ctx context.Context, url string, payloadJSON []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ProblemAnalyzerAPI-Webhook/1.0")

	if s.secret != "" {
		req.Header.Set("X-Webhook-Signature", SignPayload(payloadJSON, s.secret))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
