package gen

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"
)

// ModelHaiku is the default Anthropic model: narrative augmentation is a
// simple task and does not warrant a high-end model.
const ModelHaiku = "claude-3-5-haiku-20241022"

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	// APIKey for the Anthropic API. Falls back to ANTHROPIC_API_KEY.
	APIKey string

	// Model to use (default: ModelHaiku).
	Model string

	// MaxConcurrent caps in-flight API calls. 0 means unlimited.
	MaxConcurrent int
}

// Anthropic generates text through the Anthropic messages API.
type Anthropic struct {
	client *anthropic.Client
	model  string
	sem    *semaphore.Weighted
}

// NewAnthropic creates the Anthropic provider.
func NewAnthropic(cfg AnthropicConfig) (*Anthropic, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = ModelHaiku
	}

	var sem *semaphore.Weighted
	if cfg.MaxConcurrent > 0 {
		sem = semaphore.NewWeighted(int64(cfg.MaxConcurrent))
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Anthropic{
		client: &client,
		model:  model,
		sem:    sem,
	}, nil
}

// Name implements Generator.
func (a *Anthropic) Name() string {
	return "anthropic"
}

// Generate implements Generator.
func (a *Anthropic) Generate(ctx context.Context, system, user string) (string, error) {
	if a.sem != nil {
		if err := a.sem.Acquire(ctx, 1); err != nil {
			return "", fmt.Errorf("acquiring AI concurrency slot: %w", err)
		}
		defer a.sem.Release(1)
	}

	prompt := user
	if system != "" {
		prompt = system + "\n\n" + user
	}

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", a.model)
	}
	return text, nil
}
