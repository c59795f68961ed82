package agent

import (
	"context"
	"time"

	"github.com/pulsehq/pulse/internal/types"
)

const dataCollectorName = "DataCollector"

const dataCollectorConfidence = 0.95

// CollectionResult is the DataCollector's report body.
type CollectionResult struct {
	Timestamp    time.Time `json:"timestamp"`
	Sources      []string  `json:"sources"`
	RecordsCount int       `json:"records_count"`
	DataTypes    []string  `json:"data_types"`
	Status       string    `json:"status"`
}

// DataCollector normalizes inbound health data. The data types it reports
// are fixed; it does not inspect metric values.
type DataCollector struct {
	tenantID string
	now      func() time.Time
}

// NewDataCollector creates a DataCollector for the tenant.
func NewDataCollector(tenantID string) *DataCollector {
	return &DataCollector{tenantID: tenantID, now: time.Now}
}

// Name implements Agent.
func (a *DataCollector) Name() string {
	return dataCollectorName
}

// Process implements Agent.
func (a *DataCollector) Process(ctx context.Context, metrics types.MetricsPayload) (*types.AgentReport, error) {
	sources := metrics.Sources
	if sources == nil {
		sources = []string{}
	}

	return &types.AgentReport{
		Agent:    a.Name(),
		TenantID: a.tenantID,
		Result: CollectionResult{
			Timestamp:    a.now(),
			Sources:      sources,
			RecordsCount: len(metrics.Records),
			DataTypes:    []string{"heart_rate", "sleep", "recovery", "strain"},
			Status:       "collected",
		},
		Confidence: types.Float64(dataCollectorConfidence),
	}, nil
}
