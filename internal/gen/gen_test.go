package gen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Generate(ctx context.Context, system, user string) (string, error) {
	p.calls++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.text, p.err
}

func TestChain_FirstProviderWins(t *testing.T) {
	first := &fakeProvider{name: "first", text: "from first"}
	second := &fakeProvider{name: "second", text: "from second"}
	chain := NewChain("fallback", 0, first, second)

	text, err := chain.Generate(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "from first", text)
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls)
}

func TestChain_FailoverToNextProvider(t *testing.T) {
	first := &fakeProvider{name: "first", err: errors.New("rate limited")}
	second := &fakeProvider{name: "second", text: "from second"}
	chain := NewChain("fallback", 0, first, second)

	text, err := chain.Generate(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "from second", text)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestChain_AllProvidersFailReturnsFallback(t *testing.T) {
	first := &fakeProvider{name: "first", err: errors.New("down")}
	second := &fakeProvider{name: "second", err: errors.New("also down")}
	chain := NewChain("the fallback text", 0, first, second)

	text, err := chain.Generate(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "the fallback text", text)
}

func TestChain_NoProvidersReturnsFallback(t *testing.T) {
	chain := NewChain("nothing configured", 0)

	text, err := chain.Generate(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "nothing configured", text)
}

func TestFallbackNarrative(t *testing.T) {
	assert.Equal(t,
		"AI analysis unavailable. Using rule-based logic for PatternDetector.",
		FallbackNarrative("PatternDetector"))
}
