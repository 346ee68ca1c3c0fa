package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewOpenAIMerger_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewOpenAIMerger(Options{}, zap.NewNop()); err == nil {
		t.Error("Expected error when no API key is configured")
	}
}

func TestOpenAIMerger_Merge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Unexpected auth header %q", auth)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("Expected system+user messages, got %v", req.Messages)
		}
		if !strings.Contains(req.Messages[1].Content, "shower circuit") {
			t.Errorf("User query missing from prompt: %q", req.Messages[1].Content)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"merged reply"}}]}`))
	}))
	defer srv.Close()

	m, err := NewOpenAIMerger(Options{BaseURL: srv.URL, APIKey: "test-key"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOpenAIMerger failed: %v", err)
	}
	got, err := m.Merge(context.Background(), "shower circuit cable size?", "[Design]\nUse 10mm cable.")
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if got != "merged reply" {
		t.Errorf("Merge = %q, want %q", got, "merged reply")
	}
}

func TestOpenAIMerger_MergeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	m, err := NewOpenAIMerger(Options{BaseURL: srv.URL, APIKey: "test-key"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOpenAIMerger failed: %v", err)
	}
	if _, err := m.Merge(context.Background(), "q", "s"); err == nil {
		t.Error("Expected error for non-2xx status")
	}
}
