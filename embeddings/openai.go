package embeddings

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/smtech/assistant/util"
)

type openAIEmbedder struct {
	client     *openai.Client
	model      string
	dimension  int
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

func NewOpenAIEmbedder(opts Options) Embedder {
	cfg := openai.DefaultConfig(opts.OpenAIAPIKey)
	if opts.OpenAIBaseURL != "" {
		cfg.BaseURL = opts.OpenAIBaseURL
	}

	return &openAIEmbedder{
		client:     openai.NewClientWithConfig(cfg),
		model:      opts.Model,
		dimension:  opts.Dimension,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
	}
}

func (e *openAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(util.CalculateBackoff(e.retryDelay, attempt)):
			}
		}

		results, err := e.embedOnce(ctx, texts)
		if err == nil {
			return results, nil
		}

		lastErr = err
		if !util.IsTransient(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("create openai embeddings after %d attempts: %w", e.maxRetries+1, lastErr)
}

func (e *openAIEmbedder) embedOnce(ctx context.Context, texts []string) ([][]float32, error) {
	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := e.client.CreateEmbeddings(callCtx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai embeddings: %w", err)
	}

	results := make([][]float32, len(resp.Data))
	for i, datum := range resp.Data {
		if e.dimension > 0 && len(datum.Embedding) != e.dimension {
			return nil, fmt.Errorf("openai embedding dimension mismatch: expected %d, got %d", e.dimension, len(datum.Embedding))
		}
		results[i] = datum.Embedding
	}

	return results, nil
}
