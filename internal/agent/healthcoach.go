package agent

import (
	"context"

	"github.com/pulsehq/pulse/internal/types"
)

const healthCoachName = "HealthCoach"

const healthCoachConfidence = 0.90

// CoachingResult is the HealthCoach's report body.
type CoachingResult struct {
	Insights []string `json:"insights"`
	Mood     string   `json:"mood"`
}

// HealthCoach emits fixed coaching insights; it does not inspect the
// payload.
type HealthCoach struct {
	tenantID string
}

// NewHealthCoach creates a HealthCoach for the tenant.
func NewHealthCoach(tenantID string) *HealthCoach {
	return &HealthCoach{tenantID: tenantID}
}

// Name implements Agent.
func (a *HealthCoach) Name() string {
	return healthCoachName
}

// Process implements Agent.
func (a *HealthCoach) Process(ctx context.Context, metrics types.MetricsPayload) (*types.AgentReport, error) {
	return &types.AgentReport{
		Agent:    a.Name(),
		TenantID: a.tenantID,
		Result: CoachingResult{
			Insights: []string{
				"Your sleep consistency has improved 15% this week",
				"Consider adding 10 minutes of meditation before bed",
				"Your recovery trend is positive - keep up the good work!",
				"Try to maintain your current exercise routine",
			},
			Mood: "positive",
		},
		Confidence: types.Float64(healthCoachConfidence),
	}, nil
}
