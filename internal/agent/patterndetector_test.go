package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsehq/pulse/internal/types"
)

// recordingStore captures PatternDetector side effects in call order.
type recordingStore struct {
	calls     []string
	dataTypes []string
	insights  []any
}

func (s *recordingStore) SaveHealthData(dataType string, data any) string {
	s.calls = append(s.calls, "health_data")
	s.dataTypes = append(s.dataTypes, dataType)
	return "health_data/" + dataType + ".json"
}

func (s *recordingStore) SavePatternInsight(insight any) string {
	s.calls = append(s.calls, "insight")
	s.insights = append(s.insights, insight)
	return "insights/pattern.json"
}

// stubGenerator returns a canned response or error.
type stubGenerator struct {
	text string
	err  error
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	return g.text, g.err
}

func TestPatternDetector_FixedPatterns(t *testing.T) {
	detector := NewPatternDetector("tenant-a", nil, nil)
	report, err := detector.Process(context.Background(), types.MetricsPayload{})
	require.NoError(t, err)

	assert.Equal(t, "PatternDetector", report.Agent)
	require.NotNil(t, report.Confidence)
	assert.Equal(t, 0.82, *report.Confidence)

	result, ok := report.Result.(PatternResult)
	require.True(t, ok)
	assert.Equal(t, 2, result.PatternsFound)
	require.Len(t, result.Patterns, 2)

	sleep := result.Patterns[0]
	assert.Equal(t, "sleep_recovery_correlation", sleep.Type)
	assert.Equal(t, 0.87, sleep.Strength)
	assert.Equal(t, "0-24 hours", sleep.TimeDelay)

	exercise := result.Patterns[1]
	assert.Equal(t, "exercise_hrv_impact", exercise.Type)
	assert.Equal(t, 0.73, exercise.Strength)
	assert.Equal(t, "48-72 hours", exercise.TimeDelay)
}

func TestPatternDetector_NilGeneratorHasNoNarrative(t *testing.T) {
	detector := NewPatternDetector("tenant-a", nil, nil)
	report, err := detector.Process(context.Background(), types.MetricsPayload{})
	require.NoError(t, err)

	result := report.Result.(PatternResult)
	for _, p := range result.Patterns {
		assert.Empty(t, p.AINarrative)
	}
}

func TestPatternDetector_NarrativeOnEveryPattern(t *testing.T) {
	generator := &stubGenerator{text: "Sleep and recovery are tightly linked for you."}
	detector := NewPatternDetector("tenant-a", generator, nil)

	report, err := detector.Process(context.Background(), types.MetricsPayload{})
	require.NoError(t, err)

	result := report.Result.(PatternResult)
	for _, p := range result.Patterns {
		assert.Equal(t, generator.text, p.AINarrative)
	}
}

func TestPatternDetector_GeneratorFailureFallsBack(t *testing.T) {
	generator := &stubGenerator{err: errors.New("provider down")}
	detector := NewPatternDetector("tenant-a", generator, nil)

	report, err := detector.Process(context.Background(), types.MetricsPayload{})
	require.NoError(t, err)

	want := "AI analysis unavailable. Using rule-based logic for PatternDetector."
	result := report.Result.(PatternResult)
	for _, p := range result.Patterns {
		assert.Equal(t, want, p.AINarrative)
	}
}

func TestPatternDetector_StoreSideEffects(t *testing.T) {
	store := &recordingStore{}
	detector := NewPatternDetector("tenant-a", nil, store)

	metrics := types.MetricsPayload{RecoveryScore: types.Float64(55)}
	_, err := detector.Process(context.Background(), metrics)
	require.NoError(t, err)

	// Input is saved before the insight.
	require.Equal(t, []string{"health_data", "insight"}, store.calls)
	assert.Equal(t, []string{"pattern_analysis"}, store.dataTypes)

	require.Len(t, store.insights, 1)
	saved, ok := store.insights[0].(PatternResult)
	require.True(t, ok)
	assert.Equal(t, 2, saved.PatternsFound)
}
