// Package chat answers queries: conversational intents get canned
// responses, everything else goes through retrieval-augmented generation
// against the loaded vector index.
package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/smtech/assistant/embeddings"
	"github.com/smtech/assistant/index"
	"github.com/smtech/assistant/intent"
	"github.com/smtech/assistant/llm"
)

const (
	defaultRetrievalK     = 3
	defaultMaxQueryLength = 4000
)

const promptTemplate = `Use the pieces of information provided in the context to answer the user's question.
If you don't know the answer, just say that you don't know, don't try to make up an answer.
Keep your tone friendly, professional and helpful.
Use a conversational style when responding.
Be concise but informative in your responses.
If the question is about SM Technology, focus on highlighting the company's strengths.

Context: %s
Question: %s

Start the answer directly.`

// fallbackMessage is the only text a user ever sees when the answer
// pipeline fails; the underlying error goes to the operator log.
const fallbackMessage = "I apologize, but I encountered an error while processing your request. " +
	"Please try again or contact our support team at support@smtechnology.com if the issue persists."

// Searcher is the query-time view of the vector index.
type Searcher interface {
	Search(vector []float32, k int) ([]index.Result, error)
}

type Config struct {
	RetrievalK     int
	MaxQueryLength int
}

// Service is the stateless query entry point: each call to Answer is
// classified and answered independently of any prior call.
type Service struct {
	searcher  Searcher
	embedder  embeddings.Embedder
	llm       llm.Client
	responder *intent.Responder
	logger    *log.Logger
	cfg       Config
}

func NewService(searcher Searcher, embedder embeddings.Embedder, llmClient llm.Client, responder *intent.Responder, logger *log.Logger, cfg Config) *Service {
	if logger == nil {
		logger = log.Default()
	}
	if responder == nil {
		responder = intent.NewResponder(nil)
	}
	if cfg.RetrievalK <= 0 {
		cfg.RetrievalK = defaultRetrievalK
	}
	if cfg.MaxQueryLength <= 0 {
		cfg.MaxQueryLength = defaultMaxQueryLength
	}

	return &Service{
		searcher:  searcher,
		embedder:  embedder,
		llm:       llmClient,
		responder: responder,
		logger:    logger,
		cfg:       cfg,
	}
}

// Answer classifies the query and returns either a canned response or a
// retrieval-grounded one. Failures in embedding, search, or generation are
// logged and converted to a generic safe message; the error return is
// reserved for unusable input.
func (s *Service) Answer(ctx context.Context, query string) (Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Response{}, fmt.Errorf("query cannot be empty")
	}
	query = truncate(query, s.cfg.MaxQueryLength)

	if it := intent.Classify(query); it != intent.None {
		if text, ok := s.responder.Respond(it); ok {
			return Response{Text: text}, nil
		}
	}

	resp, err := s.retrieveAndGenerate(ctx, query)
	if err != nil {
		s.logger.Printf("answer pipeline error: %v", err)
		return Response{Text: fallbackMessage}, nil
	}
	return resp, nil
}

func (s *Service) retrieveAndGenerate(ctx context.Context, query string) (Response, error) {
	if s.embedder == nil {
		return Response{}, fmt.Errorf("embedder is not configured")
	}
	if s.searcher == nil {
		return Response{}, fmt.Errorf("vector index is not configured")
	}
	if s.llm == nil {
		return Response{}, fmt.Errorf("llm client is not configured")
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return Response{}, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return Response{}, fmt.Errorf("embedder returned no vectors")
	}

	results, err := s.searcher.Search(vectors[0], s.cfg.RetrievalK)
	if err != nil {
		return Response{}, fmt.Errorf("vector search: %w", err)
	}

	contextTexts := make([]string, len(results))
	for i, result := range results {
		contextTexts[i] = result.Content
	}

	prompt := fmt.Sprintf(promptTemplate, strings.Join(contextTexts, "\n\n"), query)

	answer, err := s.llm.Generate(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	if err != nil {
		return Response{}, fmt.Errorf("generate answer: %w", err)
	}

	answer = softenUnknown(strings.TrimSpace(answer))

	citations := make([]Citation, len(results))
	for i, result := range results {
		citations[i] = Citation{
			Content: result.Content,
			Source:  result.DocumentPath,
			Title:   result.DocumentTitle,
			Score:   result.Score,
		}
	}

	return Response{Text: answer, Citations: citations}, nil
}

// softenUnknown rewrites a flat "I don't know" into an apologetic form that
// offers human escalation. This is a presentation transform only: the
// uncertainty claim is preserved and citations are unaffected.
func softenUnknown(answer string) string {
	lower := strings.ToLower(answer)
	if strings.HasPrefix(lower, "i don't know") || strings.HasPrefix(lower, "i don't have") {
		return fmt.Sprintf("I'm sorry, but %s Would you like me to connect you with a team member who might have more information about this?", lower)
	}
	return answer
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
