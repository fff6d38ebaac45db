// Package config loads assistant configuration from an optional YAML file,
// merges environment overrides, and applies defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type EmbeddingsConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type IndexConfig struct {
	Path       string `yaml:"path"`
	RetrievalK int    `yaml:"retrieval_k"`
}

type IngestionConfig struct {
	DataDir           string  `yaml:"data_dir"`
	ChunkSize         int     `yaml:"chunk_size"`
	ChunkOverlap      int     `yaml:"chunk_overlap"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

type ChatConfig struct {
	MaxQueryLength int `yaml:"max_query_length"`
}

// RequestConfig bounds outbound calls to the embedding and generation APIs.
type RequestConfig struct {
	TimeoutSeconds    int `yaml:"timeout_seconds"`
	MaxRetries        int `yaml:"max_retries"`
	RetryDelaySeconds int `yaml:"retry_delay_seconds"`
}

type Config struct {
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	LLM        LLMConfig        `yaml:"llm"`
	Index      IndexConfig      `yaml:"index"`
	Ingestion  IngestionConfig  `yaml:"ingestion"`
	Chat       ChatConfig       `yaml:"chat"`
	Request    RequestConfig    `yaml:"request"`

	OpenAIAPIKey  string `yaml:"-"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OllamaHost    string `yaml:"ollama_host"`
}

// Load reads the config file at path, or searches default locations when
// path is empty. A missing file is not an error: defaults plus environment
// overrides produce a usable configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		locations := []string{
			"assistant.yaml",
			"assistant.yml",
			filepath.Join(os.Getenv("HOME"), ".config/assistant/config.yaml"),
		}
		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	mergeWithEnv(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Embeddings.Provider == "" {
		cfg.Embeddings.Provider = ProviderOpenAI
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = "text-embedding-3-small"
	}
	if cfg.Embeddings.Dimension == 0 {
		cfg.Embeddings.Dimension = 1536
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderOpenAI
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.8
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1024
	}

	if cfg.Index.Path == "" {
		cfg.Index.Path = filepath.Join("vectorstore", "index.db")
	}
	if cfg.Index.RetrievalK == 0 {
		cfg.Index.RetrievalK = 3
	}

	if cfg.Ingestion.DataDir == "" {
		cfg.Ingestion.DataDir = "data"
	}
	if cfg.Ingestion.ChunkSize == 0 {
		cfg.Ingestion.ChunkSize = 1000
	}
	if cfg.Ingestion.ChunkOverlap == 0 {
		cfg.Ingestion.ChunkOverlap = 150
	}
	if cfg.Ingestion.RequestsPerSecond == 0 {
		cfg.Ingestion.RequestsPerSecond = 5
	}

	if cfg.Chat.MaxQueryLength == 0 {
		cfg.Chat.MaxQueryLength = 4000
	}

	if cfg.Request.TimeoutSeconds == 0 {
		cfg.Request.TimeoutSeconds = 30
	}
	if cfg.Request.MaxRetries == 0 {
		cfg.Request.MaxRetries = 3
	}
	if cfg.Request.RetryDelaySeconds == 0 {
		cfg.Request.RetryDelaySeconds = 2
	}

	if cfg.OllamaHost == "" {
		cfg.OllamaHost = "http://localhost:11434"
	}
}

func mergeWithEnv(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAIAPIKey = key
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.OpenAIBaseURL = baseURL
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		cfg.OllamaHost = host
	}
	if path := os.Getenv("ASSISTANT_INDEX_PATH"); path != "" {
		cfg.Index.Path = path
	}
}

// RequestTimeout returns the per-call timeout for API requests.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Request.TimeoutSeconds) * time.Second
}

// RetryDelay returns the base delay between retry attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Request.RetryDelaySeconds) * time.Second
}
