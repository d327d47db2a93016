// internal/llm/provider.go
package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/abhi7515/shopdev/internal/apperrors"
	"github.com/abhi7515/shopdev/internal/models"
)

// ChatMessage is one turn of the conversation sent to the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completion is a model reply.
type Completion struct {
	Content    string `json:"content"`
	TokensUsed int    `json:"tokens_used"`
}

// Provider is the chat-completion capability. One implementation per model
// provider, selected at construction time.
type Provider interface {
	Generate(ctx context.Context, systemPrompt string, messages []ChatMessage) (*Completion, error)
}

// Options carries the tenant's model settings.
type Options struct {
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = "gpt-4"
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 500
	}
	if o.Temperature <= 0 {
		o.Temperature = 0.7
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	return o
}

// New returns the provider implementation for the given name. An unknown
// name is a configuration mistake, not an upstream failure.
func New(name models.ProviderName, opts Options) (Provider, error) {
	opts = opts.withDefaults()
	client := &http.Client{Timeout: opts.Timeout}

	switch name {
	case models.ProviderOpenAI:
		return &openAIProvider{opts: opts, client: client}, nil
	case models.ProviderAnthropic:
		return &anthropicProvider{opts: opts, client: client}, nil
	default:
		return nil, apperrors.Validation("unsupported model provider: %s", name)
	}
}
