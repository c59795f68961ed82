// Package orchestrator runs the agent roster over inbound payloads, one
// orchestrator per tenant. A process-wide Registry hands out orchestrators
// with lock-guarded get-or-create semantics.
package orchestrator

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsehq/pulse/internal/agent"
	"github.com/pulsehq/pulse/internal/contextstore"
	"github.com/pulsehq/pulse/internal/gen"
	"github.com/pulsehq/pulse/internal/types"
)

// Orchestrator owns one tenant's agent roster and context store. Calls to
// ProcessHealthData are serialized per tenant; the agents themselves run
// sequentially in roster order within a call.
type Orchestrator struct {
	tenantID string
	agents   []agent.Agent
	store    *contextstore.Manager

	mu sync.Mutex
}

// New creates an orchestrator with the standard roster. generator may be
// nil; the PatternDetector then runs rule-based only.
func New(tenantID string, generator gen.Generator) *Orchestrator {
	store := contextstore.NewManager(tenantID)
	return &Orchestrator{
		tenantID: tenantID,
		agents:   agent.Roster(tenantID, generator, store),
		store:    store,
	}
}

// Context returns the tenant's context store.
func (o *Orchestrator) Context() *contextstore.Manager {
	return o.store
}

// ProcessHealthData runs every agent over the payload and aggregates the
// outcomes. One agent's failure never prevents the others from running;
// partial success is a normal result, not an error. The returned summary's
// overall confidence is the mean over successful agents, counting an agent
// without a confidence score as 0.0.
func (o *Orchestrator) ProcessHealthData(ctx context.Context, metrics types.MetricsPayload) *types.ProcessResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	reports := make(map[string]*types.AgentReport, len(o.agents))
	outcomes := make([]types.AgentOutcome, 0, len(o.agents))

	for _, ag := range o.agents {
		report, err := ag.Process(ctx, metrics)
		if err != nil {
			log.Printf("orchestrator[%s]: agent %s failed: %v", o.tenantID, ag.Name(), err)
			outcomes = append(outcomes, types.AgentOutcome{
				Agent:  ag.Name(),
				Status: types.StatusError,
				Error:  err.Error(),
			})
			continue
		}

		reports[ag.Name()] = report
		confidence := 0.0
		if report.Confidence != nil {
			confidence = *report.Confidence
		}
		outcomes = append(outcomes, types.AgentOutcome{
			Agent:      ag.Name(),
			Status:     types.StatusSuccess,
			Confidence: types.Float64(confidence),
		})
	}

	successes := 0
	sum := 0.0
	for _, oc := range outcomes {
		if oc.Status == types.StatusSuccess {
			successes++
			sum += *oc.Confidence
		}
	}
	overall := 0.0
	if successes > 0 {
		overall = sum / float64(successes)
	}

	return &types.ProcessResult{
		Summary: types.OrchestrationSummary{
			TenantID:          o.tenantID,
			RunID:             uuid.NewString(),
			Timestamp:         time.Now(),
			AgentsProcessed:   len(outcomes),
			SuccessfulAgents:  successes,
			AgentResults:      outcomes,
			OverallConfidence: overall,
		},
		AgentReports: reports,
	}
}

// AgentStatus reports the roster in execution order.
func (o *Orchestrator) AgentStatus() types.AgentStatus {
	names := make([]string, len(o.agents))
	for i, ag := range o.agents {
		names[i] = ag.Name()
	}
	return types.AgentStatus{
		TenantID:        o.tenantID,
		TotalAgents:     len(o.agents),
		AvailableAgents: names,
		Status:          "operational",
	}
}
