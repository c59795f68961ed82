package orchestrator

import (
	"sort"
	"sync"

	"github.com/pulsehq/pulse/internal/gen"
)

// Registry is the process-wide map of tenant to orchestrator. Get-or-create
// is lock-guarded so concurrent first requests for a tenant observe the
// same instance.
type Registry struct {
	mu            sync.Mutex
	orchestrators map[string]*Orchestrator
	generator     gen.Generator
}

// NewRegistry creates an empty registry. All orchestrators it creates share
// the given generator (may be nil).
func NewRegistry(generator gen.Generator) *Registry {
	return &Registry{
		orchestrators: make(map[string]*Orchestrator),
		generator:     generator,
	}
}

// ForTenant returns the tenant's orchestrator, creating it on first use.
func (r *Registry) ForTenant(tenantID string) *Orchestrator {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orchestrators[tenantID]
	if !ok {
		o = New(tenantID, r.generator)
		r.orchestrators[tenantID] = o
	}
	return o
}

// Tenants returns the known tenant IDs in sorted order.
func (r *Registry) Tenants() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.orchestrators))
	for id := range r.orchestrators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
