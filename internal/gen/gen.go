// Package gen provides the optional LLM text-generation capability used to
// augment agent output. Providers implement a uniform Generate contract and
// are tried in a fixed order; when every provider fails the chain returns a
// deterministic fallback string instead of an error, so generation failures
// never surface past the calling agent.
package gen

import (
	"context"
	"fmt"
	"log"
	"time"
)

// DefaultTimeout bounds a single provider attempt. The chain applies it per
// provider so one hung call cannot block a request indefinitely.
const DefaultTimeout = 10 * time.Second

// Generator produces text from a system prompt and a user prompt.
type Generator interface {
	// Name returns the provider identifier, for logging.
	Name() string

	// Generate returns the generated text or an error. Implementations must
	// honor ctx cancellation.
	Generate(ctx context.Context, system, user string) (string, error)
}

// FallbackNarrative is the deterministic string returned when no provider
// can produce text for the named agent.
func FallbackNarrative(agent string) string {
	return fmt.Sprintf("AI analysis unavailable. Using rule-based logic for %s.", agent)
}

// Chain tries its providers in order and falls back to a fixed string when
// all of them fail. Chain.Generate never returns an error.
type Chain struct {
	providers []Generator
	fallback  string
	timeout   time.Duration
}

// NewChain builds a provider chain ending in the given fallback string.
// A zero timeout means DefaultTimeout.
func NewChain(fallback string, timeout time.Duration, providers ...Generator) *Chain {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Chain{
		providers: providers,
		fallback:  fallback,
		timeout:   timeout,
	}
}

// Name implements Generator.
func (c *Chain) Name() string {
	return "chain"
}

// Generate implements Generator. Each provider attempt runs under its own
// timeout; provider errors are logged and the next provider is tried.
func (c *Chain) Generate(ctx context.Context, system, user string) (string, error) {
	for _, p := range c.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		text, err := p.Generate(attemptCtx, system, user)
		cancel()
		if err != nil {
			log.Printf("gen: provider %s unavailable: %v", p.Name(), err)
			continue
		}
		return text, nil
	}
	return c.fallback, nil
}
