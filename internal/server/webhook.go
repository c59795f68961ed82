package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pulsehq/pulse/internal/types"
)

// whoopWebhook is the subset of a WHOOP v2 webhook payload the pipeline
// consumes. Durations arrive in seconds and are normalized before
// processing: sleep to hours, workout to minutes.
type whoopWebhook struct {
	Type     string         `json:"type"`
	Recovery *whoopRecovery `json:"recovery,omitempty"`
	Sleep    *whoopSleep    `json:"sleep,omitempty"`
	Strain   *whoopStrain   `json:"strain,omitempty"`
	Workout  *whoopWorkout  `json:"workout,omitempty"`
}

type whoopRecovery struct {
	Score            *float64 `json:"score,omitempty"`
	HRV              *float64 `json:"hrv,omitempty"`
	RestingHeartRate *float64 `json:"resting_heart_rate,omitempty"`
}

type whoopSleep struct {
	Duration   *float64 `json:"duration,omitempty"` // seconds
	Efficiency *float64 `json:"efficiency,omitempty"`
}

type whoopStrain struct {
	Score *float64 `json:"score,omitempty"`
}

type whoopWorkout struct {
	Duration *float64 `json:"duration,omitempty"` // seconds
	Strain   *float64 `json:"strain,omitempty"`
	Sport    string   `json:"sport,omitempty"`
}

// metrics maps the webhook payload to the normalized pipeline input.
func (p *whoopWebhook) metrics() types.MetricsPayload {
	m := types.MetricsPayload{
		Sources: []string{"whoop_webhook"},
	}
	if p.Recovery != nil {
		m.RecoveryScore = p.Recovery.Score
		m.HeartRateVariability = p.Recovery.HRV
		m.RestingHeartRate = p.Recovery.RestingHeartRate
	}
	if p.Sleep != nil {
		if p.Sleep.Duration != nil {
			m.SleepDuration = types.Float64(*p.Sleep.Duration / 3600)
		}
		m.SleepEfficiency = p.Sleep.Efficiency
	}
	if p.Strain != nil {
		m.StrainScore = p.Strain.Score
	}
	if p.Workout != nil {
		if p.Workout.Duration != nil {
			m.WorkoutDuration = types.Float64(*p.Workout.Duration / 60)
		}
		m.WorkoutStrain = p.Workout.Strain
		m.WorkoutType = p.Workout.Sport
	}
	return m
}

// handleWhoopWebhook ingests a WHOOP v2 webhook for the tenant in the path.
// Signature verification is not performed here; the signature header is
// logged for audit only.
func (s *Server) handleWhoopWebhook(w http.ResponseWriter, r *http.Request) {
	tenantID := r.PathValue("tenant")
	if tenantID == "" {
		writeError(w, http.StatusBadRequest, "unable to determine tenant")
		return
	}
	if !s.limiter.allow(tenantID) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	if sig := r.Header.Get("X-Whoop-Signature"); sig != "" {
		log.Printf("server: whoop signature received for tenant %s", tenantID)
	}

	var payload whoopWebhook
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook payload: "+err.Error())
		return
	}

	result := s.registry.ForTenant(tenantID).ProcessHealthData(r.Context(), payload.metrics())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"message":   "WHOOP webhook processed",
		"tenant_id": tenantID,
		"summary":   result.Summary,
	})
}
