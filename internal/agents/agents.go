// Package agents provides clients for the specialist consultation agents
// and a named registry over them.
package agents

import (
	"context"
	"errors"

	"github.com/voltcraft/certify/internal/models"
)

// Specialist agent names, in dispatch order.
const (
	Designer      = "designer-agent"
	CostEngineer  = "cost-engineer-agent"
	Installer     = "installer-agent"
	Commissioning = "commissioning-agent"
)

// ErrUnknownAgent is returned when a registry lookup fails.
var ErrUnknownAgent = errors.New("unknown agent")

// Specialist answers a narrow class of electrical-engineering questions.
type Specialist interface {
	// Invoke sends the conversation and design snapshot to the agent and
	// returns its payload.
	Invoke(ctx context.Context, req *models.AgentRequest) (*models.AgentPayload, error)
}
