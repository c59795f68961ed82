// Package agent implements the six health agents. Each agent is a stateless
// transformer from a metrics payload to a structured report with a fixed
// confidence score. Agents never depend on each other; the orchestrator runs
// them as a batch in roster order.
package agent

import (
	"context"

	"github.com/pulsehq/pulse/internal/gen"
	"github.com/pulsehq/pulse/internal/types"
)

// Agent is a single health-processing stage.
type Agent interface {
	// Name returns the agent's fixed identifier, unique within a roster.
	Name() string

	// Process transforms one metrics payload into a report. Errors are
	// isolated by the orchestrator: a failing agent never aborts the batch.
	Process(ctx context.Context, metrics types.MetricsPayload) (*types.AgentReport, error)
}

// PatternStore receives the PatternDetector's side effects: the raw input
// before analysis and the resulting insight after. Implemented by
// contextstore.Manager.
type PatternStore interface {
	SaveHealthData(dataType string, data any) string
	SavePatternInsight(insight any) string
}

// Roster returns the six agents in their fixed execution order. generator
// and store may be nil; the PatternDetector then runs rule-based only
// without persistence.
func Roster(tenantID string, generator gen.Generator, store PatternStore) []Agent {
	return []Agent{
		NewDataCollector(tenantID),
		NewPatternDetector(tenantID, generator, store),
		NewWorkoutPlanner(tenantID),
		NewNutritionPlanner(tenantID),
		NewHealthCoach(tenantID),
		NewSafetyOfficer(tenantID),
	}
}
