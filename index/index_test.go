package index_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smtech/assistant/index"
)

func testMeta() index.Meta {
	return index.Meta{
		EmbeddingModel: "test-model",
		Dimension:      3,
		ChunkSize:      100,
		ChunkOverlap:   20,
		BuiltAt:        time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func testDocs() []index.Document {
	return []index.Document{
		{
			ID:    "doc-1",
			Path:  "services.pdf",
			Title: "Services",
			Chunks: []index.Chunk{
				{ID: "c1", Index: 0, Content: "web development services", Start: 0, End: 24, Embedding: []float32{1, 0, 0}},
				{ID: "c2", Index: 1, Content: "mobile app development", Start: 20, End: 42, Embedding: []float32{0, 1, 0}},
			},
		},
		{
			ID:    "doc-2",
			Path:  "team.pdf",
			Title: "Team",
			Chunks: []index.Chunk{
				{ID: "c3", Index: 0, Content: "our management team", Start: 0, End: 19, Embedding: []float32{0, 0, 1}},
			},
		},
	}
}

func buildTestIndex(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	require.NoError(t, index.Build(path, testMeta(), testDocs()))
	return path
}

func TestBuildLoadRoundTrip(t *testing.T) {
	path := buildTestIndex(t)

	idx, err := index.Load(path, "test-model", 3)
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, "test-model", idx.Meta().EmbeddingModel)
	assert.Equal(t, 3, idx.Meta().Dimension)
	assert.Equal(t, 100, idx.Meta().ChunkSize)
	assert.Equal(t, 20, idx.Meta().ChunkOverlap)
}

func TestSearchOrdersByScore(t *testing.T) {
	path := buildTestIndex(t)
	idx, err := index.Load(path, "test-model", 3)
	require.NoError(t, err)

	results, err := idx.Search([]float32{0.9, 0.1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "web development services", results[0].Content)
	assert.Equal(t, "services.pdf", results[0].DocumentPath)
	assert.Equal(t, "Services", results[0].DocumentTitle)
	for i := 0; i < len(results)-1; i++ {
		assert.GreaterOrEqual(t, results[i].Score, results[i+1].Score)
	}
}

func TestSearchClampsK(t *testing.T) {
	path := buildTestIndex(t)
	idx, err := index.Load(path, "test-model", 3)
	require.NoError(t, err)

	results, err := idx.Search([]float32{1, 0, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	// k <= 0 falls back to the default.
	results, err = idx.Search([]float32{1, 0, 0}, 0)
	require.NoError(t, err)
	assert.Len(t, results, index.DefaultK)
}

func TestSearchRejectsWrongDimension(t *testing.T) {
	path := buildTestIndex(t)
	idx, err := index.Load(path, "test-model", 3)
	require.NoError(t, err)

	_, err = idx.Search([]float32{1, 0}, 3)
	assert.True(t, errors.Is(err, index.ErrDimensionMismatch))
}

func TestBuildEmptyIndexFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	err := index.Build(path, testMeta(), nil)
	assert.True(t, errors.Is(err, index.ErrEmptyIndex))

	err = index.Build(path, testMeta(), []index.Document{{ID: "d", Path: "empty.pdf"}})
	assert.True(t, errors.Is(err, index.ErrEmptyIndex))
}

func TestBuildRejectsWrongDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	docs := []index.Document{{
		ID:   "doc-1",
		Path: "bad.pdf",
		Chunks: []index.Chunk{
			{ID: "c1", Content: "text", Embedding: []float32{1, 0}},
		},
	}}
	err := index.Build(path, testMeta(), docs)
	assert.True(t, errors.Is(err, index.ErrDimensionMismatch))
}

func TestLoadMissingIndexFails(t *testing.T) {
	_, err := index.Load(filepath.Join(t.TempDir(), "missing.db"), "test-model", 3)
	assert.True(t, errors.Is(err, index.ErrNotFound))
}

func TestLoadRejectsModelMismatch(t *testing.T) {
	path := buildTestIndex(t)
	_, err := index.Load(path, "another-model", 3)
	assert.True(t, errors.Is(err, index.ErrModelMismatch))
}

func TestLoadRejectsDimensionMismatch(t *testing.T) {
	path := buildTestIndex(t)
	_, err := index.Load(path, "test-model", 1536)
	assert.True(t, errors.Is(err, index.ErrDimensionMismatch))
}

func TestBuildReplacesExistingIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	require.NoError(t, index.Build(path, testMeta(), testDocs()))

	replacement := []index.Document{{
		ID:    "doc-3",
		Path:  "pricing.pdf",
		Title: "Pricing",
		Chunks: []index.Chunk{
			{ID: "c9", Content: "pricing details", Embedding: []float32{1, 1, 1}},
		},
	}}
	require.NoError(t, index.Build(path, testMeta(), replacement))

	idx, err := index.Load(path, "test-model", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())

	results, err := idx.Search([]float32{1, 1, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, "pricing details", results[0].Content)
}
