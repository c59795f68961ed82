package orchestrator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SameInstancePerTenant(t *testing.T) {
	r := NewRegistry(nil)

	a := r.ForTenant("tenant-a")
	b := r.ForTenant("tenant-b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, r.ForTenant("tenant-a"))
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	r := NewRegistry(nil)

	const goroutines = 32
	results := make([]*Orchestrator, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.ForTenant("tenant-a")
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		require.Same(t, results[0], results[i])
	}
	assert.Equal(t, []string{"tenant-a"}, r.Tenants())
}

func TestRegistry_TenantsSorted(t *testing.T) {
	r := NewRegistry(nil)
	r.ForTenant("zeta")
	r.ForTenant("alpha")
	r.ForTenant("mid")

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Tenants())
}
