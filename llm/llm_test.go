package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smtech/assistant/config"
	"github.com/smtech/assistant/llm"
)

func TestNewClientOllama(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.LLM.Provider = config.ProviderOllama
	cfg.LLM.Model = "llama3.1:8b"

	client, err := llm.NewClient(cfg)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClientOpenAIRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.OpenAIAPIKey = ""

	_, err = llm.NewClient(cfg)
	assert.Error(t, err)
}

func TestNewClientUnknownProvider(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.LLM.Provider = "anthropic"

	_, err = llm.NewClient(cfg)
	assert.Error(t, err)
}
