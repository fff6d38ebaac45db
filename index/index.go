// Package index stores chunk embeddings durably in a single SQLite file and
// serves nearest-neighbor queries from memory. The lifecycle has two
// mutually exclusive phases: Build writes a complete index and atomically
// replaces any previous one; Load reads it back, validates that it matches
// the configured embedder, and returns an immutable in-memory structure.
package index

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// DefaultK is the number of results returned when the caller does not ask
// for a specific k.
const DefaultK = 3

var (
	// ErrNotFound means no index exists at the configured path.
	ErrNotFound = errors.New("index not found")
	// ErrEmptyIndex means a build was attempted with zero chunks.
	ErrEmptyIndex = errors.New("refusing to build an empty index")
	// ErrDimensionMismatch means the stored vectors and the configured
	// embedder disagree on dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrModelMismatch means the index was built with a different
	// embedding model than the one configured for queries.
	ErrModelMismatch = errors.New("embedding model mismatch")
)

// Meta describes how an index was built. It is persisted alongside the
// entries so Load can refuse to serve an index that does not match the
// current embedder configuration.
type Meta struct {
	EmbeddingModel string
	Dimension      int
	ChunkSize      int
	ChunkOverlap   int
	BuiltAt        time.Time
}

// Document is the unit of ingestion: one source file and its chunks.
type Document struct {
	ID     string
	Path   string
	Title  string
	Chunks []Chunk
}

// Chunk is a contiguous slice of a document's text plus its embedding.
type Chunk struct {
	ID        string
	Index     int
	Content   string
	Start     int
	End       int
	Embedding []float32
}

// Result is a retrieved chunk with its similarity score.
type Result struct {
	Content       string
	DocumentPath  string
	DocumentTitle string
	Score         float64
}

type entry struct {
	content  string
	docPath  string
	docTitle string
	vector   []float32
}

// Index is the in-memory searchable form. It is never mutated after Load,
// so concurrent readers need no coordination.
type Index struct {
	meta    Meta
	entries []entry
}

func (ix *Index) Meta() Meta { return ix.meta }

func (ix *Index) Len() int { return len(ix.entries) }

// Search returns up to k chunks ordered by decreasing cosine similarity to
// the query vector. k is clamped to the index size; ties keep insertion
// order because the sort is stable.
func (ix *Index) Search(vector []float32, k int) ([]Result, error) {
	if len(vector) != ix.meta.Dimension {
		return nil, fmt.Errorf("query vector has %d dimensions, index has %d: %w",
			len(vector), ix.meta.Dimension, ErrDimensionMismatch)
	}

	if k <= 0 {
		k = DefaultK
	}
	if k > len(ix.entries) {
		k = len(ix.entries)
	}

	scored := make([]Result, len(ix.entries))
	for i, e := range ix.entries {
		scored[i] = Result{
			Content:       e.content,
			DocumentPath:  e.docPath,
			DocumentTitle: e.docTitle,
			Score:         cosineSimilarity(vector, e.vector),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored[:k], nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
