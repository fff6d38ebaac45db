package ingestion

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"

	"github.com/smtech/assistant/embeddings"
	"github.com/smtech/assistant/index"
)

// Config controls how a corpus is chunked, embedded, and stored.
type Config struct {
	IndexPath         string
	ChunkSize         int
	ChunkOverlap      int
	EmbeddingModel    string
	Dimension         int
	RequestsPerSecond float64
	ShowProgress      bool
}

// Service builds the vector index from a directory of documents. Index
// builds are offline, single-writer operations; running two against the
// same path concurrently is not supported.
type Service struct {
	embedder embeddings.Embedder
	logger   *log.Logger
	cfg      Config
}

func NewService(embedder embeddings.Embedder, logger *log.Logger, cfg Config) *Service {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = defaultChunkOverlap
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}

	return &Service{
		embedder: embedder,
		logger:   logger,
		cfg:      cfg,
	}
}

// Ingest walks dir for supported documents, chunks and embeds them, and
// replaces the index at the configured path. A corpus that produces zero
// chunks fails with index.ErrEmptyIndex rather than persisting an index
// that can never return a hit.
func (s *Service) Ingest(ctx context.Context, dir string) error {
	if s.embedder == nil {
		return fmt.Errorf("embedder not configured")
	}

	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("documents directory: %w", err)
	}

	paths, err := collectDocuments(dir)
	if err != nil {
		return fmt.Errorf("walk documents directory: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no documents found in %s: %w", dir, index.ErrEmptyIndex)
	}

	limiter := rate.NewLimiter(rate.Limit(s.cfg.RequestsPerSecond), 1)

	var bar *progressbar.ProgressBar
	if s.cfg.ShowProgress {
		bar = newProgressBar(len(paths), "Indexing documents")
	}

	docs := make([]index.Document, 0, len(paths))
	totalChunks := 0

	for _, path := range paths {
		doc, err := s.ingestFile(ctx, dir, path, limiter)
		if err != nil {
			s.logger.Printf("ingest failed for %s: %v", path, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if bar != nil {
				bar.Add(1)
			}
			continue
		}
		if doc != nil {
			docs = append(docs, *doc)
			totalChunks += len(doc.Chunks)
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	if totalChunks == 0 {
		return fmt.Errorf("corpus in %s produced no chunks: %w", dir, index.ErrEmptyIndex)
	}

	meta := index.Meta{
		EmbeddingModel: s.cfg.EmbeddingModel,
		Dimension:      s.cfg.Dimension,
		ChunkSize:      s.cfg.ChunkSize,
		ChunkOverlap:   s.cfg.ChunkOverlap,
		BuiltAt:        time.Now().UTC(),
	}

	if err := index.Build(s.cfg.IndexPath, meta, docs); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	s.logger.Printf("indexed %d documents (%d chunks) into %s", len(docs), totalChunks, s.cfg.IndexPath)
	return nil
}

func (s *Service) ingestFile(ctx context.Context, root, path string, limiter *rate.Limiter) (*index.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	parsed, err := Parse(path, data)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	pieces := SplitText(parsed.Text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if len(pieces) == 0 {
		s.logger.Printf("skip empty document %s", path)
		return nil, nil
	}

	texts := make([]string, len(pieces))
	for i, piece := range pieces {
		texts[i] = piece.Text
	}

	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("generate embeddings: %w", err)
	}
	if len(vectors) != len(pieces) {
		return nil, fmt.Errorf("embedding count mismatch: have %d chunks, %d embeddings", len(pieces), len(vectors))
	}

	relPath, relErr := filepath.Rel(root, path)
	if relErr != nil {
		relPath = path
	}
	relPath = filepath.ToSlash(relPath)

	doc := index.Document{
		ID:    uuid.New().String(),
		Path:  relPath,
		Title: parsed.Title,
	}
	for i, piece := range pieces {
		doc.Chunks = append(doc.Chunks, index.Chunk{
			ID:        uuid.New().String(),
			Index:     i,
			Content:   piece.Text,
			Start:     piece.Start,
			End:       piece.End,
			Embedding: vectors[i],
		})
	}

	return &doc, nil
}

func collectDocuments(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if DetectFormat(path) != FormatUnknown {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("docs"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
