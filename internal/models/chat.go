package models

import "fmt"

// ChatMessage is one turn of the consultation conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IntentFlags marks which specialist areas a user message touches.
// Flags are independent: several may be set, or none.
type IntentFlags struct {
	Design        bool `json:"design"`
	Cost          bool `json:"cost"`
	Installation  bool `json:"installation"`
	Commissioning bool `json:"commissioning"`
}

// Any reports whether at least one flag is set.
func (f IntentFlags) Any() bool {
	return f.Design || f.Cost || f.Installation || f.Commissioning
}

// Active returns the names of the set flags in dispatch order.
func (f IntentFlags) Active() []string {
	names := []string{}
	if f.Design {
		names = append(names, "design")
	}
	if f.Cost {
		names = append(names, "cost")
	}
	if f.Installation {
		names = append(names, "installation")
	}
	if f.Commissioning {
		names = append(names, "commissioning")
	}
	return names
}

// Citation points at a supporting source for part of a response.
type Citation struct {
	Source  string  `json:"source,omitempty"`
	Snippet string  `json:"snippet,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

// AgentRequest is the payload sent to each specialist agent.
type AgentRequest struct {
	Messages      []ChatMessage  `json:"messages"`
	CurrentDesign map[string]any `json:"currentDesign,omitempty"`
}

// LastUserMessage returns the content of the most recent user turn, or "".
func (r *AgentRequest) LastUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == "user" {
			return r.Messages[i].Content
		}
	}
	return ""
}

// Validate checks that the request carries at least one message.
func (r *AgentRequest) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("messages cannot be empty")
	}
	return nil
}

// AgentPayload is the data portion of a specialist agent's reply.
type AgentPayload struct {
	Response    string           `json:"response"`
	Citations   []Citation       `json:"citations,omitempty"`
	CostUpdates map[string]any   `json:"costUpdates,omitempty"`
	ToolCalls   []map[string]any `json:"toolCalls,omitempty"`
}

// OrchestratorRequest is the HTTP request body for a consultation turn.
type OrchestratorRequest = AgentRequest

// OrchestratorResponse is the merged reply returned to the caller.
// CostUpdates is null when no specialist reported any.
type OrchestratorResponse struct {
	Response     string           `json:"response"`
	ActiveAgents []string         `json:"activeAgents"`
	Citations    []Citation       `json:"citations"`
	CostUpdates  map[string]any   `json:"costUpdates"`
	ToolCalls    []map[string]any `json:"toolCalls"`
	Timestamp    string           `json:"timestamp"`
}

// Session is a persisted orchestration turn summary.
type Session struct {
	ID        string   `json:"id"`
	Query     string   `json:"query"`
	Agents    []string `json:"agents"`
	CreatedAt string   `json:"created_at"`
}
