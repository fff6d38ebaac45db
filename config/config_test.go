package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smtech/assistant/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ASSISTANT_INDEX_PATH", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err, "explicit missing path should fail")

	cfg, err = config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.ProviderOpenAI, cfg.Embeddings.Provider)
	assert.Equal(t, "text-embedding-3-small", cfg.Embeddings.Model)
	assert.Equal(t, 1536, cfg.Embeddings.Dimension)
	assert.Equal(t, 0.8, cfg.LLM.Temperature)
	assert.Equal(t, 1024, cfg.LLM.MaxTokens)
	assert.Equal(t, 3, cfg.Index.RetrievalK)
	assert.Equal(t, 1000, cfg.Ingestion.ChunkSize)
	assert.Equal(t, 150, cfg.Ingestion.ChunkOverlap)
	assert.Equal(t, 4000, cfg.Chat.MaxQueryLength)
	assert.Equal(t, 3, cfg.Request.MaxRetries)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assistant.yaml")
	data := []byte(`
embeddings:
  provider: ollama
  model: nomic-embed-text
  dimension: 768
llm:
  model: llama3.1:8b
  temperature: 0.2
index:
  retrieval_k: 5
ingestion:
  chunk_size: 500
  chunk_overlap: 50
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ASSISTANT_INDEX_PATH", filepath.Join(dir, "custom.db"))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.ProviderOllama, cfg.Embeddings.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embeddings.Model)
	assert.Equal(t, 768, cfg.Embeddings.Dimension)
	assert.Equal(t, 0.2, cfg.LLM.Temperature)
	assert.Equal(t, 5, cfg.Index.RetrievalK)
	assert.Equal(t, 500, cfg.Ingestion.ChunkSize)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, filepath.Join(dir, "custom.db"), cfg.Index.Path)

	// Unset fields still get defaults.
	assert.Equal(t, config.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 1024, cfg.LLM.MaxTokens)
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate())

	cfg.Embeddings.Provider = "cohere"
	cfg.LLM.Temperature = 3
	cfg.Ingestion.ChunkOverlap = cfg.Ingestion.ChunkSize
	cfg.Index.RetrievalK = -1

	errs := cfg.Validate()
	require.Len(t, errs, 4)

	fields := make([]string, len(errs))
	for i, verr := range errs {
		fields[i] = verr.Field
		assert.NotEmpty(t, verr.Error())
	}
	assert.Contains(t, fields, "embeddings.provider")
	assert.Contains(t, fields, "llm.temperature")
	assert.Contains(t, fields, "ingestion.chunk_overlap")
	assert.Contains(t, fields, "index.retrieval_k")
}
