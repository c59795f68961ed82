package agent

import (
	"context"

	"github.com/pulsehq/pulse/internal/types"
)

const safetyOfficerName = "SafetyOfficer"

// SafetyReport is the SafetyOfficer's report body.
type SafetyReport struct {
	Alerts          []string `json:"alerts"`
	Warnings        []string `json:"warnings"`
	RiskLevel       string   `json:"risk_level"`
	Recommendations []string `json:"recommendations"`
}

// SafetyOfficer checks for concerning metric values. It is the one agent
// that reports no confidence score.
type SafetyOfficer struct {
	tenantID string
}

// NewSafetyOfficer creates a SafetyOfficer for the tenant.
func NewSafetyOfficer(tenantID string) *SafetyOfficer {
	return &SafetyOfficer{tenantID: tenantID}
}

// Name implements Agent.
func (a *SafetyOfficer) Name() string {
	return safetyOfficerName
}

// Process implements Agent. Thresholds are strict: a recovery score of
// exactly 30 raises no alert and a sleep duration of exactly 6 raises no
// warning. Absent metrics default to safe values (recovery 100, sleep 8).
func (a *SafetyOfficer) Process(ctx context.Context, metrics types.MetricsPayload) (*types.AgentReport, error) {
	alerts := []string{}
	warnings := []string{}

	if metrics.RecoveryScoreOr(100) < 30 {
		alerts = append(alerts, "Low recovery score detected - consider rest day")
	}
	if metrics.SleepDurationOr(8) < 6 {
		warnings = append(warnings, "Insufficient sleep duration")
	}

	riskLevel := "low"
	if len(alerts) > 0 {
		riskLevel = "medium"
	}

	return &types.AgentReport{
		Agent:    a.Name(),
		TenantID: a.tenantID,
		Result: SafetyReport{
			Alerts:    alerts,
			Warnings:  warnings,
			RiskLevel: riskLevel,
			Recommendations: []string{
				"Monitor recovery metrics closely",
				"Ensure adequate sleep hygiene",
			},
		},
	}, nil
}
