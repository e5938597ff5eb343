// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// Nothing here is persisted — requests and results live for a single
// analysis and the only durable output is the rendered report file.
package models

// AnalysisRequest is the raw problem statement handed to the analysis step.
type AnalysisRequest struct {
	RawText string `json:"raw_text"`
}

// AnalysisResult pairs the verbatim input with the completion service's answer.
// Summary is only non-empty when the completion call succeeded.
type AnalysisResult struct {
	OriginalInput string `json:"original_input"`
	Summary       string `json:"summary"`
}

// AnalysisResponse is the JSON body returned by POST /analyze-file and
// carried by the streaming "result" event.
type AnalysisResponse struct {
	Summary     string `json:"summary"`
	DownloadURL string `json:"download_url"`
}

// EventType tags a SessionEvent.
// Go Pattern: Go has no sum types, so a tagged struct with a string
// discriminator is the usual way to send a variant over JSON.
type EventType string

const (
	EventStatus EventType = "status"
	EventResult EventType = "result"
	EventError  EventType = "error"
)

// SessionEvent is one JSON message sent to a streaming client.
// Only the fields belonging to Type are populated.
type SessionEvent struct {
	Type        EventType `json:"type"`
	Message     string    `json:"message,omitempty"`      // status
	Summary     string    `json:"summary,omitempty"`      // result
	DownloadURL string    `json:"download_url,omitempty"` // result
	Detail      string    `json:"detail,omitempty"`       // error
}

// StatusEvent builds a progress event.
func StatusEvent(message string) SessionEvent {
	return SessionEvent{Type: EventStatus, Message: message}
}

// ResultEvent builds the terminal success event for one inbound message.
func ResultEvent(resp *AnalysisResponse) SessionEvent {
	return SessionEvent{Type: EventResult, Summary: resp.Summary, DownloadURL: resp.DownloadURL}
}

// ErrorEvent builds the terminal failure event for one inbound message.
func ErrorEvent(detail string) SessionEvent {
	return SessionEvent{Type: EventError, Detail: detail}
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
	Code   int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status               string `json:"status"`
	Version              string `json:"version"`
	CompletionConfigured bool   `json:"completion_configured"`
	ReportDir            string `json:"report_dir"`
	Webhooks             int    `json:"webhooks"`
	Mirror               bool   `json:"mirror"`
}
