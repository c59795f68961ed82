// Package config loads service configuration from an optional YAML file
// with PULSE_* environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pulsehq/pulse/internal/gen"
)

// Config is the full service configuration.
type Config struct {
	// Listen is the HTTP listen address for serve mode.
	Listen string `mapstructure:"listen"`

	LLM       LLMConfig       `mapstructure:"llm"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// LLMConfig configures the optional text-generation providers. A provider
// participates in the chain only when its key is set (directly or via the
// standard environment variable).
type LLMConfig struct {
	OpenAIKey      string `mapstructure:"openai_key"`
	OpenAIModel    string `mapstructure:"openai_model"`
	AnthropicKey   string `mapstructure:"anthropic_key"`
	AnthropicModel string `mapstructure:"anthropic_model"`

	// Timeout bounds each provider attempt.
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxConcurrent caps in-flight provider calls. 0 means unlimited.
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

// RateLimitConfig configures the per-tenant request limiter.
type RateLimitConfig struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

// Load reads configuration from path (optional; "" skips the file) and the
// environment. Environment keys are PULSE_ plus the config key with dots
// replaced by underscores, e.g. PULSE_LLM_ANTHROPIC_KEY.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen", ":8080")
	// Keys without a meaningful default still need registering so the
	// PULSE_* environment override is visible to Unmarshal.
	v.SetDefault("llm.openai_key", "")
	v.SetDefault("llm.openai_model", "")
	v.SetDefault("llm.anthropic_key", "")
	v.SetDefault("llm.anthropic_model", "")
	v.SetDefault("llm.timeout", gen.DefaultTimeout)
	v.SetDefault("llm.max_concurrent", 4)
	v.SetDefault("rate_limit.per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Generator builds the provider chain from the configured keys: OpenAI
// first, then Anthropic, ending in the deterministic fallback. Returns nil
// when no provider key is configured; agents then run rule-based only.
func (c *LLMConfig) Generator() gen.Generator {
	var providers []gen.Generator

	if c.OpenAIKey != "" {
		p, err := gen.NewOpenAI(gen.OpenAIConfig{
			APIKey: c.OpenAIKey,
			Model:  c.OpenAIModel,
		})
		if err == nil {
			providers = append(providers, p)
		}
	}
	if c.AnthropicKey != "" {
		p, err := gen.NewAnthropic(gen.AnthropicConfig{
			APIKey:        c.AnthropicKey,
			Model:         c.AnthropicModel,
			MaxConcurrent: c.MaxConcurrent,
		})
		if err == nil {
			providers = append(providers, p)
		}
	}

	if len(providers) == 0 {
		return nil
	}
	return gen.NewChain(gen.FallbackNarrative("PatternDetector"), c.Timeout, providers...)
}
