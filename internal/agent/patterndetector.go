package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pulsehq/pulse/internal/gen"
	"github.com/pulsehq/pulse/internal/types"
)

const patternDetectorName = "PatternDetector"

const patternDetectorConfidence = 0.82

// Pattern is one detected correlation. The pattern records are fixed
// rule-based findings, not derived from the input; only the optional
// AI narrative varies.
type Pattern struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Strength    float64 `json:"strength"`
	TimeDelay   string  `json:"time_delay"`
	AINarrative string  `json:"ai_narrative,omitempty"`
}

// PatternResult is the PatternDetector's report body.
type PatternResult struct {
	PatternsFound int       `json:"patterns_found"`
	Patterns      []Pattern `json:"patterns"`
}

// PatternDetector reports health correlations, optionally augmented with an
// LLM narrative. It is the only agent with side effects: it records its
// input and its insight in the tenant's context store.
type PatternDetector struct {
	tenantID  string
	generator gen.Generator // nil: rule-based only, no narrative
	store     PatternStore  // nil: no persistence
}

// NewPatternDetector creates a PatternDetector for the tenant.
func NewPatternDetector(tenantID string, generator gen.Generator, store PatternStore) *PatternDetector {
	return &PatternDetector{
		tenantID:  tenantID,
		generator: generator,
		store:     store,
	}
}

// Name implements Agent.
func (a *PatternDetector) Name() string {
	return patternDetectorName
}

// Process implements Agent.
func (a *PatternDetector) Process(ctx context.Context, metrics types.MetricsPayload) (*types.AgentReport, error) {
	if a.store != nil {
		a.store.SaveHealthData("pattern_analysis", metrics)
	}

	patterns := []Pattern{
		{
			Type:        "sleep_recovery_correlation",
			Description: "Sleep quality strongly correlates with recovery score",
			Strength:    0.87,
			TimeDelay:   "0-24 hours",
		},
		{
			Type:        "exercise_hrv_impact",
			Description: "High-intensity exercise affects HRV for 48-72 hours",
			Strength:    0.73,
			TimeDelay:   "48-72 hours",
		},
	}

	if a.generator != nil {
		narrative := a.narrative(ctx, metrics)
		for i := range patterns {
			patterns[i].AINarrative = narrative
		}
	}

	result := PatternResult{
		PatternsFound: len(patterns),
		Patterns:      patterns,
	}

	if a.store != nil {
		a.store.SavePatternInsight(result)
	}

	return &types.AgentReport{
		Agent:      a.Name(),
		TenantID:   a.tenantID,
		Result:     result,
		Confidence: types.Float64(patternDetectorConfidence),
	}, nil
}

// narrative asks the generator for a short analysis of the metrics. Any
// generation failure degrades to the deterministic fallback string; it never
// propagates as an agent error.
func (a *PatternDetector) narrative(ctx context.Context, metrics types.MetricsPayload) string {
	system := "You are a health data analyst. Given a day of wearable metrics, " +
		"describe in two or three sentences what the detected sleep-recovery and " +
		"exercise-HRV correlations mean for this person. Plain language, no lists."

	payload, err := json.Marshal(metrics)
	if err != nil {
		return gen.FallbackNarrative(a.Name())
	}
	user := fmt.Sprintf("Today's metrics: %s", payload)

	text, err := a.generator.Generate(ctx, system, user)
	if err != nil {
		return gen.FallbackNarrative(a.Name())
	}
	return text
}
