// Package analysis sends problem statements to an OpenAI-compatible chat
// completion service and returns the model's business analysis.
//
// The request format follows the OpenAI chat completions standard, so any
// compatible endpoint (OpenAI itself, OpenRouter, a local gateway) can be
// used by setting a base URL.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"

	"github.com/Shimizu-Technology/problem-analyzer-api/internal/models"
)

// Model is the fixed completion model used for every analysis.
const Model = openai.GPT4

// ErrNotConfigured is returned when no API key was supplied.
var ErrNotConfigured = errors.New("OpenAI API key not configured; set OPENAI_API_KEY")

// UpstreamError wraps a failed or unusable completion-service response.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "completion service: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Config holds what the Requester needs to reach the completion service.
type Config struct {
	APIKey  string
	BaseURL string // Optional: defaults to the public OpenAI endpoint
}

// Requester performs analysis requests. It is built once at startup and
// only read afterwards, so it is safe to share between sessions.
type Requester struct {
	client *openai.Client
	model  string
}

// NewRequester creates a Requester. A missing API key is not an error here;
// it surfaces as ErrNotConfigured on each Analyze call.
func NewRequester(cfg Config) *Requester {
	if cfg.APIKey == "" {
		return &Requester{model: Model}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Requester{
		client: openai.NewClientWithConfig(clientCfg),
		model:  Model,
	}
}

// Configured reports whether an API key was supplied.
func (r *Requester) Configured() bool {
	return r.client != nil
}

// Analyze sends text to the completion service exactly once and returns the
// first choice's content as the summary. There is no retry: a failed call is
// reported as a single *UpstreamError.
//
// The prompt asks for four sections but the answer is not validated against
// them; the summary is passed through as the model wrote it.
func (r *Requester) Analyze(ctx context.Context, text string) (*models.AnalysisResult, error) {
	if !r.Configured() {
		return nil, ErrNotConfigured
	}

	log.Printf("🤖 Requesting analysis from %s (%d chars of input)", r.model, len(text))

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(text)},
		},
	})
	if err != nil {
		log.Printf("❌ Completion request failed: %v", err)
		return nil, &UpstreamError{Err: fmt.Errorf("chat completion failed: %w", err)}
	}

	if len(resp.Choices) == 0 {
		log.Printf("❌ Completion response had no choices (id=%s)", resp.ID)
		return nil, &UpstreamError{Err: errors.New("no response from model")}
	}

	summary := resp.Choices[0].Message.Content
	if summary == "" {
		log.Printf("❌ Completion response had empty content (id=%s)", resp.ID)
		return nil, &UpstreamError{Err: errors.New("empty response from model")}
	}

	return &models.AnalysisResult{
		OriginalInput: text,
		Summary:       summary,
	}, nil
}

// BuildPrompt embeds the input verbatim in the fixed solution-architect prompt.
func BuildPrompt(text string) string {
	return fmt.Sprintf(`You are an enterprise solution architect. Given the following input (could be a problem statement, conversation or meeting notes):

Your job is to:
- Understand and summarize key challenges
- Extract goals and business needs
- Propose a strategic business solution
- (Optional) Provide action items

Input:
%s`, text)
}
