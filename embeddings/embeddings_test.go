package embeddings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smtech/assistant/config"
	"github.com/smtech/assistant/embeddings"
)

func TestNewEmbedderOllama(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Embeddings.Provider = config.ProviderOllama
	cfg.Embeddings.Model = "nomic-embed-text"

	embedder, err := embeddings.NewEmbedder(cfg)
	require.NoError(t, err)
	assert.NotNil(t, embedder)
}

func TestNewEmbedderOpenAIRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.OpenAIAPIKey = ""

	_, err = embeddings.NewEmbedder(cfg)
	assert.Error(t, err)
}

func TestNewEmbedderUnknownProvider(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Embeddings.Provider = "huggingface"

	_, err = embeddings.NewEmbedder(cfg)
	assert.Error(t, err)
}
