package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/voltcraft/certify/internal/models"
)

const defaultTimeout = 60 * time.Second

// HTTPSpecialist invokes a specialist agent over HTTP. The transport
// timeout bounds a hung agent; the orchestrator itself imposes none.
type HTTPSpecialist struct {
	name   string
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPSpecialist creates a client for the agent at url. A zero timeout
// uses the default.
func NewHTTPSpecialist(name, url string, timeout time.Duration, logger *zap.Logger) *HTTPSpecialist {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPSpecialist{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Invoke POSTs the request and decodes the agent payload.
func (s *HTTPSpecialist) Invoke(ctx context.Context, req *models.AgentRequest) (*models.AgentPayload, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request for %s: %w", s.name, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", s.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("invoke %s: status %d: %s", s.name, resp.StatusCode, snippet)
	}

	var payload models.AgentPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", s.name, err)
	}
	s.logger.Debug("specialist responded",
		zap.String("agent", s.name),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &payload, nil
}
