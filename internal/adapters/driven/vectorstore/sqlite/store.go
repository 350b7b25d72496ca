// Package sqlite provides a vector store backed by SQLite.
// Embeddings are stored as little-endian float32 blobs and ranked by
// cosine similarity computed in process. Intended for local and
// single-node deployments; the Supabase store is the hosted variant.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/vellum-labs/vellum/internal/core/domain"
	"github.com/vellum-labs/vellum/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	source     TEXT NOT NULL,
	metadata   TEXT NOT NULL DEFAULT '{}',
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS document_chunks (
	id          TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	content     TEXT NOT NULL,
	source      TEXT NOT NULL,
	ordering    INTEGER NOT NULL,
	embedding   BLOB NOT NULL,
	metadata    TEXT NOT NULL DEFAULT '{}',
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_document_chunks_document_id
	ON document_chunks (document_id);
`

// Store is a SQLite-backed vector store.
type Store struct {
	db         *sql.DB
	dimensions int
}

// NewStore opens (or creates) the database at dataDir/vectors.db.
// If dataDir is empty, defaults to ~/.vellum/data.
func NewStore(dataDir string, dimensions int) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("sqlite: dimensions must be positive, got %d", dimensions)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".vellum", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")

	// WAL mode keeps concurrent searches readable during an ingest.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, dimensions: dimensions}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertDocument inserts or updates a document record keyed by id.
func (s *Store) UpsertDocument(ctx context.Context, doc domain.DocumentRecord) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, source, metadata, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			source = excluded.source,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, doc.ID, doc.Title, doc.Source, string(metadataJSON), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// UpsertChunks inserts or updates chunk records keyed by chunk id.
// Every embedding is validated against the configured dimension before
// any write is issued.
func (s *Store) UpsertChunks(ctx context.Context, chunks []domain.ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.dimensions {
			return fmt.Errorf("%w: chunk %s has length %d, configured dimension is %d",
				domain.ErrDimensionMismatch, chunk.ID, len(chunk.Embedding), s.dimensions)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO document_chunks (id, document_id, content, source, ordering, embedding, metadata, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			content = excluded.content,
			source = excluded.source,
			ordering = excluded.ordering,
			embedding = excluded.embedding,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Content,
			chunk.Source, chunk.Ordering, float32SliceToBytes(chunk.Embedding),
			string(metadataJSON), now); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteDocumentChunks removes all chunks for the document. Deleting a
// document with no chunks succeeds silently.
func (s *Store) DeleteDocumentChunks(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM document_chunks WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// QueryByVector scans all chunks and ranks them by cosine similarity.
// Brute force is acceptable at the corpus sizes this backend targets.
func (s *Store) QueryByVector(ctx context.Context, vector []float32, limit int) ([]domain.QueryResult, error) {
	if len(vector) != s.dimensions {
		return nil, fmt.Errorf("%w: query vector has length %d, configured dimension is %d",
			domain.ErrDimensionMismatch, len(vector), s.dimensions)
	}
	if limit <= 0 {
		return []domain.QueryResult{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, content, embedding, metadata
		FROM document_chunks
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.QueryResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			result        domain.QueryResult
			embeddingBlob []byte
			metadataJSON  string
		)
		if err := rows.Scan(&result.ChunkID, &result.DocumentID, &result.Content,
			&embeddingBlob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		embedding := bytesToFloat32Slice(embeddingBlob)
		if len(embedding) != s.dimensions {
			// Skip rows written under a different dimension config.
			continue
		}

		result.Score = cosineSimilarity(vector, embedding)
		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &result.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshalling chunk metadata: %w", err)
			}
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []domain.QueryResult{}
	}

	return results, nil
}

// cosineSimilarity returns 1 - cosine distance for two equal-length
// vectors. Zero vectors score zero.
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

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
