// Package llm provides the generation client used to turn retrieved context
// into an answer.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/smtech/assistant/config"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

type Options struct {
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int

	OllamaHost    string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

func NewClient(cfg *config.Config) (Client, error) {
	opts := Options{
		Provider:      cfg.LLM.Provider,
		Model:         cfg.LLM.Model,
		Temperature:   cfg.LLM.Temperature,
		MaxTokens:     cfg.LLM.MaxTokens,
		OllamaHost:    cfg.OllamaHost,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		Timeout:       cfg.RequestTimeout(),
		MaxRetries:    cfg.Request.MaxRetries,
		RetryDelay:    cfg.RetryDelay(),
	}

	switch opts.Provider {
	case config.ProviderOllama:
		return NewOllamaClient(opts), nil
	case config.ProviderOpenAI:
		if opts.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider selected but OPENAI_API_KEY not set")
		}
		return NewOpenAIClient(opts), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", opts.Provider)
	}
}
