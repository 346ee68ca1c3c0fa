// Package orchestrator classifies consultation messages, fans out to the
// matching specialist agents, and merges their replies into one response.
package orchestrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voltcraft/certify/internal/agents"
	"github.com/voltcraft/certify/internal/intent"
	"github.com/voltcraft/certify/internal/knowledge"
	"github.com/voltcraft/certify/internal/llm"
	"github.com/voltcraft/certify/internal/models"
	"github.com/voltcraft/certify/internal/storage"
)

// ClarificationResponse is returned when no specialist area matches the
// message, or every dispatched specialist failed.
const ClarificationResponse = "I'm not sure which part of your project that relates to. " +
	"Could you clarify whether you're asking about circuit design, costs, " +
	"installation methods, or testing and certification?"

const sectionSeparator = "\n\n---\n\n"

const defaultMaxCitations = 3

// Engine coordinates one consultation turn.
type Engine struct {
	classifier   *intent.Classifier
	registry     *agents.Registry
	merger       llm.Merger
	guidance     *knowledge.Index
	store        storage.Store
	maxCitations int
	logger       *zap.Logger
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithGuidance attaches a guidance index used to add regulation citations.
func WithGuidance(idx *knowledge.Index, maxCitations int) Option {
	return func(e *Engine) {
		e.guidance = idx
		if maxCitations > 0 {
			e.maxCitations = maxCitations
		}
	}
}

// WithStore attaches a session store. Persistence failures are logged,
// never surfaced.
func WithStore(s storage.Store) Option {
	return func(e *Engine) { e.store = s }
}

// NewEngine creates an orchestration engine. The merger must be non-nil;
// a missing merge model is a configuration failure handled before requests
// reach the engine.
func NewEngine(classifier *intent.Classifier, registry *agents.Registry, merger llm.Merger, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		classifier:   classifier,
		registry:     registry,
		merger:       merger,
		maxCitations: defaultMaxCitations,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// dispatch is one planned specialist call.
type dispatch struct {
	intent string
	agent  string
	marker string
}

// dispatchPlan returns the specialist calls for the set flags, in fixed
// order: design, cost, installation, commissioning.
func dispatchPlan(flags models.IntentFlags) []dispatch {
	var plan []dispatch
	if flags.Design {
		plan = append(plan, dispatch{"design", agents.Designer, "[Design]"})
	}
	if flags.Cost {
		plan = append(plan, dispatch{"cost", agents.CostEngineer, "[Cost]"})
	}
	if flags.Installation {
		plan = append(plan, dispatch{"installation", agents.Installer, "[Installation]"})
	}
	if flags.Commissioning {
		plan = append(plan, dispatch{"commissioning", agents.Commissioning, "[Commissioning]"})
	}
	return plan
}

// Respond runs one consultation turn. Individual specialist failures are
// logged and skipped; a failed merge degrades to the raw concatenation.
// The returned response is always usable by the caller.
func (e *Engine) Respond(ctx context.Context, req *models.OrchestratorRequest) *models.OrchestratorResponse {
	message := req.LastUserMessage()
	flags := e.classifier.Classify(message)
	plan := dispatchPlan(flags)

	resp := &models.OrchestratorResponse{
		ActiveAgents: flags.Active(),
		Citations:    []models.Citation{},
		ToolCalls:    []map[string]any{},
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}

	payloads := e.fanOut(ctx, plan, req)

	var sections []string
	for i, p := range payloads {
		if p == nil {
			continue
		}
		sections = append(sections, plan[i].marker+"\n"+p.Response)
		resp.Citations = append(resp.Citations, p.Citations...)
		resp.ToolCalls = append(resp.ToolCalls, p.ToolCalls...)
		if p.CostUpdates != nil {
			// Last writer wins; conflicting updates are not merged.
			resp.CostUpdates = p.CostUpdates
		}
	}

	if len(sections) == 0 {
		resp.Response = ClarificationResponse
		return resp
	}

	joined := strings.Join(sections, sectionSeparator)
	merged, err := e.merger.Merge(ctx, message, joined)
	if err != nil {
		e.logger.Warn("merge failed, returning raw sections", zap.Error(err))
		resp.Response = joined
	} else {
		resp.Response = merged
	}

	e.addGuidanceCitations(ctx, message, resp)
	e.saveSession(ctx, message, resp)
	return resp
}

// fanOut invokes every planned specialist concurrently and waits for all
// of them. There is no per-call timeout here; the agent clients bound their
// own transports. Failed calls yield a nil slot.
func (e *Engine) fanOut(ctx context.Context, plan []dispatch, req *models.AgentRequest) []*models.AgentPayload {
	payloads := make([]*models.AgentPayload, len(plan))
	var wg sync.WaitGroup
	for i, d := range plan {
		specialist, err := e.registry.Get(d.agent)
		if err != nil {
			e.logger.Error("specialist not registered", zap.String("agent", d.agent), zap.Error(err))
			continue
		}
		wg.Add(1)
		go func(i int, d dispatch, s agents.Specialist) {
			defer wg.Done()
			payload, err := s.Invoke(ctx, req)
			if err != nil {
				e.logger.Warn("specialist failed, skipping",
					zap.String("agent", d.agent), zap.Error(err))
				return
			}
			payloads[i] = payload
		}(i, d, specialist)
	}
	wg.Wait()
	return payloads
}

func (e *Engine) addGuidanceCitations(ctx context.Context, message string, resp *models.OrchestratorResponse) {
	if e.guidance == nil {
		return
	}
	hits, err := e.guidance.Search(ctx, message, e.maxCitations)
	if err != nil {
		e.logger.Warn("guidance lookup failed", zap.Error(err))
		return
	}
	for _, h := range hits {
		resp.Citations = append(resp.Citations, models.Citation{
			Source:  h.Source,
			Snippet: h.Snippet,
			Score:   h.Score,
		})
	}
}

func (e *Engine) saveSession(ctx context.Context, message string, resp *models.OrchestratorResponse) {
	if e.store == nil {
		return
	}
	session := &models.Session{
		ID:     uuid.NewString(),
		Query:  message,
		Agents: resp.ActiveAgents,
	}
	if err := e.store.SaveSession(ctx, session); err != nil {
		e.logger.Warn("session save failed", zap.Error(err))
	}
}
