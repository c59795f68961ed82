// Package vfs implements a per-tenant in-memory virtual filesystem. It
// simulates a hierarchical tree of "/{tenant}/{category}/{filename}" paths
// over a flat map without touching real storage. Entries never expire; all
// state is lost on process exit by design.
package vfs

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// Entry is one stored file. Content is the base64 encoding of the
// serialized value; Size and Checksum are computed over the serialized
// (pre-base64) representation.
type Entry struct {
	Path      string            `json:"path"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Size      int               `json:"size"`
	Checksum  string            `json:"checksum"`
}

// FileInfo is the listing view of an entry, with filename and category
// parsed back out of the path.
type FileInfo struct {
	Path      string    `json:"path"`
	Filename  string    `json:"filename"`
	Category  string    `json:"category"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Checksum  string    `json:"checksum"`
}

// CategoryStats aggregates entry count and size for one category.
type CategoryStats struct {
	Count int `json:"count"`
	Size  int `json:"size"`
}

// StorageStats summarizes a filesystem's contents.
type StorageStats struct {
	TenantID       string                   `json:"tenant_id"`
	TotalFiles     int                      `json:"total_files"`
	TotalSizeBytes int                      `json:"total_size_bytes"`
	TotalSizeMB    float64                  `json:"total_size_mb"`
	Categories     map[string]CategoryStats `json:"categories"`
}

// FileSystem is an in-memory virtual filesystem scoped to one tenant.
// All methods are safe for concurrent use.
type FileSystem struct {
	tenantID string

	mu    sync.RWMutex
	files map[string]*Entry

	now func() time.Time
}

// New creates an empty filesystem for the tenant.
func New(tenantID string) *FileSystem {
	return NewWithClock(tenantID, time.Now)
}

// NewWithClock creates a filesystem with an injected clock, used by tests
// and by the context store to keep entry timestamps and generated filenames
// on the same clock.
func NewWithClock(tenantID string, now func() time.Time) *FileSystem {
	return &FileSystem{
		tenantID: tenantID,
		files:    make(map[string]*Entry),
		now:      now,
	}
}

// TenantID returns the owning tenant.
func (fs *FileSystem) TenantID() string {
	return fs.tenantID
}

func (fs *FileSystem) path(category, filename string) string {
	return fmt.Sprintf("/%s/%s/%s", fs.tenantID, category, filename)
}

// serialize converts content to its canonical string form: JSON for
// structured values, the raw string for strings. Size and checksum are
// computed over this form.
func serialize(content any) string {
	switch v := content.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		b, err := json.Marshal(content)
		if err != nil {
			return fmt.Sprint(content)
		}
		return string(b)
	}
}

// deserialize reverses serialize: JSON when it parses, plain string
// otherwise.
func deserialize(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

// WriteFile stores content at /{tenant}/{category}/{filename}, overwriting
// any existing entry, and returns the synthesized path. Overwriting resets
// created_at as well as updated_at; callers that need history embed a
// timestamp in the filename.
func (fs *FileSystem) WriteFile(category, filename string, content any, metadata map[string]string) string {
	serialized := serialize(content)
	p := fs.path(category, filename)
	if metadata == nil {
		metadata = map[string]string{}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	now := fs.now()
	fs.files[p] = &Entry{
		Path:      p,
		Content:   base64.StdEncoding.EncodeToString([]byte(serialized)),
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
		Size:      len(serialized),
		Checksum:  fmt.Sprintf("%x", md5.Sum([]byte(serialized))),
	}

	log.Printf("vfs[%s]: wrote %s (%d bytes)", fs.tenantID, p, len(serialized))
	return p
}

// ReadFile returns the decoded content at the path, or nil when absent.
// It never returns an error: a missing file is an expected condition.
func (fs *FileSystem) ReadFile(category, filename string) any {
	p := fs.path(category, filename)

	fs.mu.RLock()
	entry, ok := fs.files[p]
	fs.mu.RUnlock()

	if !ok {
		log.Printf("vfs[%s]: file not found: %s", fs.tenantID, p)
		return nil
	}

	decoded, err := base64.StdEncoding.DecodeString(entry.Content)
	if err != nil {
		log.Printf("vfs[%s]: corrupt entry at %s: %v", fs.tenantID, p, err)
		return nil
	}
	return deserialize(string(decoded))
}

// ListFiles returns info for every entry under the tenant, or only the
// given category when non-empty. Results are sorted by path; callers that
// need recency must sort by CreatedAt themselves.
func (fs *FileSystem) ListFiles(category string) []FileInfo {
	prefix := fmt.Sprintf("/%s/", fs.tenantID)
	if category != "" {
		prefix = fmt.Sprintf("/%s/%s/", fs.tenantID, category)
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	infos := make([]FileInfo, 0, len(fs.files))
	for p, entry := range fs.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		parts := strings.Split(p, "/")
		info := FileInfo{
			Path:      p,
			Filename:  parts[len(parts)-1],
			Category:  "unknown",
			Size:      entry.Size,
			CreatedAt: entry.CreatedAt,
			UpdatedAt: entry.UpdatedAt,
			Checksum:  entry.Checksum,
		}
		if len(parts) > 2 {
			info.Category = parts[len(parts)-2]
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos
}

// DeleteFile removes the entry if present and reports whether it existed.
func (fs *FileSystem) DeleteFile(category, filename string) bool {
	p := fs.path(category, filename)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.files[p]; !ok {
		log.Printf("vfs[%s]: file not found for deletion: %s", fs.tenantID, p)
		return false
	}
	delete(fs.files, p)
	log.Printf("vfs[%s]: deleted %s", fs.tenantID, p)
	return true
}

// StorageStats summarizes the filesystem's contents by category.
func (fs *FileSystem) StorageStats() StorageStats {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	stats := StorageStats{
		TenantID:   fs.tenantID,
		TotalFiles: len(fs.files),
		Categories: make(map[string]CategoryStats),
	}
	for p, entry := range fs.files {
		stats.TotalSizeBytes += entry.Size
		parts := strings.Split(p, "/")
		if len(parts) > 2 {
			cat := parts[len(parts)-2]
			cs := stats.Categories[cat]
			cs.Count++
			cs.Size += entry.Size
			stats.Categories[cat] = cs
		}
	}
	stats.TotalSizeMB = math.Round(float64(stats.TotalSizeBytes)/(1024*1024)*100) / 100
	return stats
}
