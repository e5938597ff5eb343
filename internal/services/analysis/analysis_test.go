package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// fakeCompletions starts a server that answers /v1/chat/completions with
// the given status and body, and counts how often it was called.
func fakeCompletions(t *testing.T, status int, body string, lastPrompt *string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization header = %q", got)
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Stream bool `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != Model {
			t.Errorf("model = %q, want %q", req.Model, Model)
		}
		if req.Stream {
			t.Error("request asked for streaming")
		}
		if len(req.Messages) != 1 {
			t.Errorf("got %d messages, want exactly 1", len(req.Messages))
		} else if lastPrompt != nil {
			*lastPrompt = req.Messages[0].Content
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func completionBody(contents ...string) string {
	type choice struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	}
	resp := struct {
		ID      string   `json:"id"`
		Object  string   `json:"object"`
		Model   string   `json:"model"`
		Choices []choice `json:"choices"`
	}{ID: "chatcmpl-test", Object: "chat.completion", Model: Model, Choices: []choice{}}

	for i, c := range contents {
		ch := choice{Index: i, FinishReason: "stop"}
		ch.Message.Role = "assistant"
		ch.Message.Content = c
		resp.Choices = append(resp.Choices, ch)
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestAnalyze_Success(t *testing.T) {
	var prompt string
	srv, calls := fakeCompletions(t, http.StatusOK, completionBody("## Summary\nPicking is slow.", "ignored"), &prompt)

	r := NewRequester(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	input := "Our warehouse picking is too slow"

	result, err := r.Analyze(context.Background(), input)
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}
	if result.Summary != "## Summary\nPicking is slow." {
		t.Errorf("Summary = %q, want first choice content", result.Summary)
	}
	if result.OriginalInput != input {
		t.Errorf("OriginalInput = %q, want %q", result.OriginalInput, input)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf("completion service called %d times, want 1", n)
	}
	if !strings.HasSuffix(prompt, "Input:\n"+input) {
		t.Errorf("prompt does not end with the verbatim input: %q", prompt)
	}
}

// TestAnalyze_MissingCredential must not touch the network.
func TestAnalyze_MissingCredential(t *testing.T) {
	srv, calls := fakeCompletions(t, http.StatusOK, completionBody("unused"), nil)

	r := NewRequester(Config{APIKey: "", BaseURL: srv.URL + "/v1"})
	if r.Configured() {
		t.Fatal("Configured() = true without an API key")
	}

	_, err := r.Analyze(context.Background(), "anything")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Analyze() error = %v, want ErrNotConfigured", err)
	}
	if n := atomic.LoadInt32(calls); n != 0 {
		t.Errorf("completion service called %d times, want 0", n)
	}
}

// TestAnalyze_UpstreamFailures checks every failure is a single, unretried call.
func TestAnalyze_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit"}}`},
		{"no choices", http.StatusOK, completionBody()},
		{"empty content", http.StatusOK, completionBody("")},
		{"not json", http.StatusOK, `<html>gateway</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := fakeCompletions(t, tt.status, tt.body, nil)
			r := NewRequester(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"})

			result, err := r.Analyze(context.Background(), "input")
			var upstream *UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("Analyze() error = %v, want *UpstreamError", err)
			}
			if result != nil {
				t.Errorf("Analyze() result = %+v, want nil", result)
			}
			if n := atomic.LoadInt32(calls); n != 1 {
				t.Errorf("completion service called %d times, want 1", n)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("meeting notes\nwith two lines")

	for _, want := range []string{
		"enterprise solution architect",
		"summarize key challenges",
		"Extract goals and business needs",
		"Propose a strategic business solution",
		"(Optional) Provide action items",
		"Input:\nmeeting notes\nwith two lines",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
