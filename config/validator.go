package config

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate reports every configuration problem rather than stopping at the
// first one, so the operator can fix them in a single pass.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.Embeddings.Provider != ProviderOpenAI && c.Embeddings.Provider != ProviderOllama {
		errors = append(errors, ValidationError{
			Field:   "embeddings.provider",
			Message: fmt.Sprintf("unknown provider %q (expected %q or %q)", c.Embeddings.Provider, ProviderOpenAI, ProviderOllama),
		})
	}

	if c.Embeddings.Dimension < 1 {
		errors = append(errors, ValidationError{
			Field:   "embeddings.dimension",
			Message: "dimension must be positive",
		})
	}

	if c.LLM.Provider != ProviderOpenAI && c.LLM.Provider != ProviderOllama {
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unknown provider %q (expected %q or %q)", c.LLM.Provider, ProviderOpenAI, ProviderOllama),
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 8192 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 8192",
		})
	}

	if c.Index.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "index.path",
			Message: "index path is required",
		})
	}

	if c.Index.RetrievalK < 1 {
		errors = append(errors, ValidationError{
			Field:   "index.retrieval_k",
			Message: "retrieval_k must be positive",
		})
	}

	if c.Ingestion.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "ingestion.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Ingestion.ChunkOverlap < 0 || c.Ingestion.ChunkOverlap >= c.Ingestion.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "ingestion.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	if c.Ingestion.RequestsPerSecond <= 0 {
		errors = append(errors, ValidationError{
			Field:   "ingestion.requests_per_second",
			Message: "requests_per_second must be positive",
		})
	}

	if c.Chat.MaxQueryLength < 1 {
		errors = append(errors, ValidationError{
			Field:   "chat.max_query_length",
			Message: "max_query_length must be positive",
		})
	}

	if c.Request.MaxRetries < 0 || c.Request.MaxRetries > 10 {
		errors = append(errors, ValidationError{
			Field:   "request.max_retries",
			Message: "max_retries must be between 0 and 10",
		})
	}

	return errors
}
