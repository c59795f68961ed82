// Package types defines the core data model for the pulse agent pipeline:
// the inbound metrics payload, per-agent reports, and the orchestration
// summary returned to callers.
package types

import (
	"time"
)

// Outcome status values for a single agent within one orchestration run.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// MetricsPayload is the normalized health metrics input to agent processing.
// All metric fields are optional; agents apply their own defaults for absent
// values, so an empty payload is always valid.
type MetricsPayload struct {
	RecoveryScore        *float64 `json:"recovery_score,omitempty"`
	SleepDuration        *float64 `json:"sleep_duration,omitempty"` // hours
	HeartRateVariability *float64 `json:"heart_rate_variability,omitempty"`
	RestingHeartRate     *float64 `json:"resting_heart_rate,omitempty"`
	SleepEfficiency      *float64 `json:"sleep_efficiency,omitempty"`
	StrainScore          *float64 `json:"strain_score,omitempty"`
	WorkoutDuration      *float64 `json:"workout_duration,omitempty"` // minutes
	WorkoutStrain        *float64 `json:"workout_strain,omitempty"`
	WorkoutType          string   `json:"workout_type,omitempty"`

	Sources []string `json:"sources,omitempty"`
	Records []any    `json:"records,omitempty"`
}

// RecoveryScoreOr returns the recovery score, or def when absent.
func (m *MetricsPayload) RecoveryScoreOr(def float64) float64 {
	return orDefault(m.RecoveryScore, def)
}

// SleepDurationOr returns the sleep duration in hours, or def when absent.
func (m *MetricsPayload) SleepDurationOr(def float64) float64 {
	return orDefault(m.SleepDuration, def)
}

// StrainScoreOr returns the strain score, or def when absent.
func (m *MetricsPayload) StrainScoreOr(def float64) float64 {
	return orDefault(m.StrainScore, def)
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Float64 returns a pointer to v, for optional confidence fields.
func Float64(v float64) *float64 {
	return &v
}

// AgentReport is the full output of one agent for one payload. Result holds
// the agent-specific structure (see internal/agent). Confidence is a fixed
// per-agent quality signal in [0,1]; agents that do not report one (the
// SafetyOfficer) leave it nil.
type AgentReport struct {
	Agent      string   `json:"agent"`
	TenantID   string   `json:"tenant_id"`
	Result     any      `json:"result"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// AgentOutcome is the per-agent line item in an orchestration summary.
// Successful agents carry a confidence (0.0 when the agent reported none);
// failed agents carry the error message instead.
type AgentOutcome struct {
	Agent      string   `json:"agent"`
	Status     string   `json:"status"`
	Confidence *float64 `json:"confidence,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// OrchestrationSummary aggregates one run of all agents over one payload.
// OverallConfidence is the mean confidence of successful agents, counting a
// missing confidence as 0.0, and is 0 when no agent succeeded.
type OrchestrationSummary struct {
	TenantID          string         `json:"tenant_id"`
	RunID             string         `json:"run_id"`
	Timestamp         time.Time      `json:"timestamp"`
	AgentsProcessed   int            `json:"agents_processed"`
	SuccessfulAgents  int            `json:"successful_agents"`
	AgentResults      []AgentOutcome `json:"agent_results"`
	OverallConfidence float64        `json:"overall_confidence"`
}

// ProcessResult is the combined structure returned to callers: the summary
// plus the full report of every agent that succeeded, keyed by agent name.
type ProcessResult struct {
	Summary      OrchestrationSummary    `json:"summary"`
	AgentReports map[string]*AgentReport `json:"agent_results"`
}

// AgentStatus describes an orchestrator's agent roster.
type AgentStatus struct {
	TenantID        string   `json:"tenant_id"`
	TotalAgents     int      `json:"total_agents"`
	AvailableAgents []string `json:"available_agents"`
	Status          string   `json:"status"`
}
