package index

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var schema = []string{
	`CREATE TABLE index_meta (
		embedding_model TEXT NOT NULL,
		dimension INTEGER NOT NULL,
		chunk_size INTEGER NOT NULL,
		chunk_overlap INTEGER NOT NULL,
		built_at TEXT NOT NULL
	)`,
	`CREATE TABLE documents (
		id TEXT PRIMARY KEY,
		source_path TEXT NOT NULL,
		title TEXT NOT NULL
	)`,
	`CREATE TABLE chunks (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		chunk_index INTEGER NOT NULL,
		content TEXT NOT NULL,
		start_offset INTEGER NOT NULL,
		end_offset INTEGER NOT NULL,
		embedding BLOB NOT NULL,
		FOREIGN KEY(document_id) REFERENCES documents(id)
	)`,
}

// Build serializes documents and their embeddings to a new index file at
// path. The index is written to a temporary file and renamed into place so
// a concurrent reader never observes a half-written index. A build with
// zero chunks fails with ErrEmptyIndex and leaves any existing index
// untouched.
func Build(path string, meta Meta, docs []Document) error {
	total := 0
	for _, doc := range docs {
		total += len(doc.Chunks)
	}
	if total == 0 {
		return ErrEmptyIndex
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create index directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale temp index: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", tmp)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}

	if err := writeIndex(db, meta, docs); err != nil {
		db.Close()
		os.Remove(tmp)
		return err
	}

	if err := db.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close index file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace index: %w", err)
	}

	return nil
}

func writeIndex(db *sqlx.DB, meta Meta, docs []Document) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create index schema: %w", err)
		}
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin index tx: %w", err)
	}
	defer tx.Rollback()

	builtAt := meta.BuiltAt
	if builtAt.IsZero() {
		builtAt = time.Now().UTC()
	}

	if _, err := tx.Exec(
		`INSERT INTO index_meta (embedding_model, dimension, chunk_size, chunk_overlap, built_at) VALUES (?, ?, ?, ?, ?)`,
		meta.EmbeddingModel, meta.Dimension, meta.ChunkSize, meta.ChunkOverlap, builtAt.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert index meta: %w", err)
	}

	for _, doc := range docs {
		if _, err := tx.Exec(
			`INSERT INTO documents (id, source_path, title) VALUES (?, ?, ?)`,
			doc.ID, doc.Path, doc.Title,
		); err != nil {
			return fmt.Errorf("insert document %s: %w", doc.Path, err)
		}

		for _, chunk := range doc.Chunks {
			if len(chunk.Embedding) != meta.Dimension {
				return fmt.Errorf("chunk %d of %s has %d dimensions, expected %d: %w",
					chunk.Index, doc.Path, len(chunk.Embedding), meta.Dimension, ErrDimensionMismatch)
			}
			if _, err := tx.Exec(
				`INSERT INTO chunks (id, document_id, chunk_index, content, start_offset, end_offset, embedding) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				chunk.ID, doc.ID, chunk.Index, chunk.Content, chunk.Start, chunk.End, encodeVector(chunk.Embedding),
			); err != nil {
				return fmt.Errorf("insert chunk %d of %s: %w", chunk.Index, doc.Path, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index tx: %w", err)
	}

	return nil
}

// Load reads a previously built index into memory and validates it against
// the embedder the caller intends to query with. Any disagreement between
// the recorded model or dimension and the configured one is a fatal
// configuration problem, not something to serve through.
func Load(path, wantModel string, wantDimension int) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("index at %s: %w", path, ErrNotFound)
	}

	db, err := sqlx.Connect("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer db.Close()

	var row struct {
		EmbeddingModel string `db:"embedding_model"`
		Dimension      int    `db:"dimension"`
		ChunkSize      int    `db:"chunk_size"`
		ChunkOverlap   int    `db:"chunk_overlap"`
		BuiltAt        string `db:"built_at"`
	}
	if err := db.Get(&row, `SELECT embedding_model, dimension, chunk_size, chunk_overlap, built_at FROM index_meta LIMIT 1`); err != nil {
		return nil, fmt.Errorf("read index meta (index may be corrupt): %w", err)
	}

	if wantModel != "" && row.EmbeddingModel != wantModel {
		return nil, fmt.Errorf("index built with model %q, configured model is %q: %w",
			row.EmbeddingModel, wantModel, ErrModelMismatch)
	}
	if wantDimension > 0 && row.Dimension != wantDimension {
		return nil, fmt.Errorf("index has dimension %d, configured dimension is %d: %w",
			row.Dimension, wantDimension, ErrDimensionMismatch)
	}

	builtAt, err := time.Parse(time.RFC3339, row.BuiltAt)
	if err != nil {
		return nil, fmt.Errorf("parse index build time: %w", err)
	}

	meta := Meta{
		EmbeddingModel: row.EmbeddingModel,
		Dimension:      row.Dimension,
		ChunkSize:      row.ChunkSize,
		ChunkOverlap:   row.ChunkOverlap,
		BuiltAt:        builtAt,
	}

	rows, err := db.Queryx(`
		SELECT c.content, c.embedding, d.source_path, d.title
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		ORDER BY c.rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("read index entries: %w", err)
	}
	defer rows.Close()

	var entries []entry
	for rows.Next() {
		var (
			content, docPath, docTitle string
			blob                       []byte
		)
		if err := rows.Scan(&content, &blob, &docPath, &docTitle); err != nil {
			return nil, fmt.Errorf("scan index entry: %w", err)
		}

		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("decode embedding: %w", err)
		}
		if len(vec) != meta.Dimension {
			return nil, fmt.Errorf("stored vector has %d dimensions, meta says %d: %w",
				len(vec), meta.Dimension, ErrDimensionMismatch)
		}

		entries = append(entries, entry{
			content:  content,
			docPath:  docPath,
			docTitle: docTitle,
			vector:   vec,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate index entries: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("index at %s has no entries: %w", path, ErrEmptyIndex)
	}

	return &Index{meta: meta, entries: entries}, nil
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(buf))
	}
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v, nil
}
