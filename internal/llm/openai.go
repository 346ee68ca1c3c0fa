package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 120 * time.Second
)

const mergeSystemPrompt = "You are an electrical engineering assistant for UK electricians. " +
	"Merge the specialist sections below into one conversational reply to the user's question. " +
	"Write flowing prose without lists or markdown formatting. Keep every regulation reference " +
	"and citation from the sections, rephrased into prose."

// OpenAIMerger calls an OpenAI-compatible chat-completions endpoint.
type OpenAIMerger struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Options configures an OpenAIMerger. Zero values use defaults; an empty
// APIKey falls back to the OPENAI_API_KEY environment variable.
type Options struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewOpenAIMerger creates the merge client. Returns an error when no API
// key is available; the orchestrator surfaces that as a configuration
// failure rather than degrading silently.
func NewOpenAIMerger(opts Options, logger *zap.Logger) (*OpenAIMerger, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OpenAIMerger{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Merge sends the user query and concatenated sections to the model and
// returns its reply.
func (m *OpenAIMerger) Merge(ctx context.Context, query, sections string) (string, error) {
	user := fmt.Sprintf("User question:\n%s\n\nSpecialist sections:\n%s", query, sections)
	body, err := json.Marshal(chatRequest{
		Model: m.model,
		Messages: []chatMessage{
			{Role: "system", Content: mergeSystemPrompt},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal merge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build merge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	start := time.Now()
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("merge call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("merge call: status %d: %s", resp.StatusCode, snippet)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode merge response: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("merge call: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("merge call: empty choices")
	}
	m.logger.Debug("merge completed",
		zap.String("model", m.model),
		zap.Duration("elapsed", time.Since(start)),
	)
	return cr.Choices[0].Message.Content, nil
}
