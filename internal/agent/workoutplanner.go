package agent

import (
	"context"

	"github.com/pulsehq/pulse/internal/types"
)

const workoutPlannerName = "WorkoutPlanner"

const workoutPlannerConfidence = 0.88

// WorkoutPlan is the WorkoutPlanner's report body.
type WorkoutPlan struct {
	WorkoutType   string `json:"workout_type"`
	Duration      string `json:"duration"`
	Intensity     string `json:"intensity"`
	RecoveryBased bool   `json:"recovery_based"`
}

// WorkoutPlanner recommends a workout tier from the recovery score alone.
type WorkoutPlanner struct {
	tenantID string
}

// NewWorkoutPlanner creates a WorkoutPlanner for the tenant.
func NewWorkoutPlanner(tenantID string) *WorkoutPlanner {
	return &WorkoutPlanner{tenantID: tenantID}
}

// Name implements Agent.
func (a *WorkoutPlanner) Name() string {
	return workoutPlannerName
}

// Process implements Agent. Tier boundaries are inclusive: exactly 80 is
// High Intensity, exactly 60 is Moderate.
func (a *WorkoutPlanner) Process(ctx context.Context, metrics types.MetricsPayload) (*types.AgentReport, error) {
	recovery := metrics.RecoveryScoreOr(75)

	plan := WorkoutPlan{RecoveryBased: true}
	switch {
	case recovery >= 80:
		plan.WorkoutType = "High Intensity"
		plan.Duration = "45-60 minutes"
		plan.Intensity = "High"
	case recovery >= 60:
		plan.WorkoutType = "Moderate Intensity"
		plan.Duration = "30-45 minutes"
		plan.Intensity = "Medium"
	default:
		plan.WorkoutType = "Recovery"
		plan.Duration = "20-30 minutes"
		plan.Intensity = "Low"
	}

	return &types.AgentReport{
		Agent:      a.Name(),
		TenantID:   a.tenantID,
		Result:     plan,
		Confidence: types.Float64(workoutPlannerConfidence),
	}, nil
}
