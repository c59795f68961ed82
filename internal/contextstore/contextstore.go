// Package contextstore is the typed context layer over one tenant's virtual
// filesystem: one category per concern, timestamped filenames, and recency
// queries over the stored entries.
package contextstore

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pulsehq/pulse/internal/vfs"
)

// Storage categories, one per concern.
const (
	CategoryAgentResults    = "agent_results"
	CategoryHealthData      = "health_data"
	CategoryInsights        = "insights"
	CategoryRecommendations = "recommendations"
)

// filenameStamp formats timestamps embedded in filenames. Second
// granularity: two saves within the same second to the same category
// overwrite each other. Known precision limitation, kept for compatibility.
const filenameStamp = "20060102_150405"

// Summary aggregates storage stats with recent-item counts.
type Summary struct {
	TenantID              string           `json:"tenant_id"`
	StorageStats          vfs.StorageStats `json:"storage_stats"`
	RecentInsights        int              `json:"recent_insights"`
	RecentRecommendations int              `json:"recent_recommendations"`
	TotalAgentRuns        int              `json:"total_agent_runs"`
	LastUpdated           time.Time        `json:"last_updated"`
}

// Manager owns one tenant's virtual filesystem and provides the typed
// save/query surface over it.
type Manager struct {
	tenantID string
	fs       *vfs.FileSystem
	now      func() time.Time
}

// NewManager creates a context manager with a fresh filesystem.
func NewManager(tenantID string) *Manager {
	return NewManagerWithClock(tenantID, time.Now)
}

// NewManagerWithClock creates a context manager on an injected clock, shared
// with its filesystem so filenames and entry timestamps agree.
func NewManagerWithClock(tenantID string, now func() time.Time) *Manager {
	return &Manager{
		tenantID: tenantID,
		fs:       vfs.NewWithClock(tenantID, now),
		now:      now,
	}
}

// FileSystem exposes the underlying filesystem for stats queries.
func (m *Manager) FileSystem() *vfs.FileSystem {
	return m.fs
}

// SaveAgentResult stores one agent's processing result and returns the path.
func (m *Manager) SaveAgentResult(agentName string, result any) string {
	stamp := m.now().Format(filenameStamp)
	return m.fs.WriteFile(CategoryAgentResults,
		fmt.Sprintf("%s_%s.json", agentName, stamp), result,
		map[string]string{
			"agent_name":  agentName,
			"result_type": "agent_processing",
			"timestamp":   stamp,
		})
}

// SaveHealthData stores a raw health-data payload and returns the path.
func (m *Manager) SaveHealthData(dataType string, data any) string {
	stamp := m.now().Format(filenameStamp)
	return m.fs.WriteFile(CategoryHealthData,
		fmt.Sprintf("%s_%s.json", dataType, stamp), data,
		map[string]string{
			"data_type": dataType,
			"source":    "user_input",
			"timestamp": stamp,
		})
}

// SavePatternInsight stores a pattern-detection insight and returns the path.
func (m *Manager) SavePatternInsight(insight any) string {
	stamp := m.now().Format(filenameStamp)
	return m.fs.WriteFile(CategoryInsights,
		fmt.Sprintf("pattern_%s.json", stamp), insight,
		map[string]string{
			"insight_type": "pattern_detection",
			"timestamp":    stamp,
		})
}

// SaveRecommendation stores a health recommendation and returns the path.
func (m *Manager) SaveRecommendation(recommendation any) string {
	stamp := m.now().Format(filenameStamp)
	return m.fs.WriteFile(CategoryRecommendations,
		fmt.Sprintf("recommendation_%s.json", stamp), recommendation,
		map[string]string{
			"recommendation_type": "health_advice",
			"timestamp":           stamp,
		})
}

// GetRecentInsights returns up to limit insight entries, newest first.
func (m *Manager) GetRecentInsights(limit int) []vfs.FileInfo {
	return recent(m.fs.ListFiles(CategoryInsights), limit)
}

// GetRecentRecommendations returns up to limit recommendation entries,
// newest first.
func (m *Manager) GetRecentRecommendations(limit int) []vfs.FileInfo {
	return recent(m.fs.ListFiles(CategoryRecommendations), limit)
}

// GetAgentHistory returns agent-result entries newest first, filtered to
// filenames containing agentName when non-empty.
func (m *Manager) GetAgentHistory(agentName string) []vfs.FileInfo {
	files := m.fs.ListFiles(CategoryAgentResults)
	if agentName != "" {
		filtered := files[:0]
		for _, f := range files {
			if strings.Contains(f.Filename, agentName) {
				filtered = append(filtered, f)
			}
		}
		files = filtered
	}
	sortByCreatedDesc(files)
	return files
}

// ContextSummary aggregates storage stats with recent-item counts.
func (m *Manager) ContextSummary() Summary {
	return Summary{
		TenantID:              m.tenantID,
		StorageStats:          m.fs.StorageStats(),
		RecentInsights:        len(m.GetRecentInsights(5)),
		RecentRecommendations: len(m.GetRecentRecommendations(5)),
		TotalAgentRuns:        len(m.GetAgentHistory("")),
		LastUpdated:           m.now(),
	}
}

func recent(files []vfs.FileInfo, limit int) []vfs.FileInfo {
	sortByCreatedDesc(files)
	if limit >= 0 && len(files) > limit {
		files = files[:limit]
	}
	return files
}

func sortByCreatedDesc(files []vfs.FileInfo) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})
}
