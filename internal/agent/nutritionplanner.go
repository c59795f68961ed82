package agent

import (
	"context"

	"github.com/pulsehq/pulse/internal/types"
)

const nutritionPlannerName = "NutritionPlanner"

const nutritionPlannerConfidence = 0.85

// NutritionPlan is the NutritionPlanner's report body.
type NutritionPlan struct {
	Hydration   string   `json:"hydration"`
	Macros      string   `json:"macros"`
	Timing      string   `json:"timing"`
	Supplements []string `json:"supplements"`
}

// NutritionPlanner emits a fixed daily recommendation bundle; it does not
// inspect the payload.
type NutritionPlanner struct {
	tenantID string
}

// NewNutritionPlanner creates a NutritionPlanner for the tenant.
func NewNutritionPlanner(tenantID string) *NutritionPlanner {
	return &NutritionPlanner{tenantID: tenantID}
}

// Name implements Agent.
func (a *NutritionPlanner) Name() string {
	return nutritionPlannerName
}

// Process implements Agent.
func (a *NutritionPlanner) Process(ctx context.Context, metrics types.MetricsPayload) (*types.AgentReport, error) {
	return &types.AgentReport{
		Agent:    a.Name(),
		TenantID: a.tenantID,
		Result: NutritionPlan{
			Hydration:   "Drink 2.5-3L water today",
			Macros:      "Focus on protein (1.6g/kg body weight)",
			Timing:      "Eat within 2 hours post-workout",
			Supplements: []string{"Magnesium", "Vitamin D", "Omega-3"},
		},
		Confidence: types.Float64(nutritionPlannerConfidence),
	}, nil
}
