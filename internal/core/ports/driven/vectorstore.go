package driven

import (
	"context"

	"github.com/vellum-labs/vellum/internal/core/domain"
)

// VectorStore persists documents and their chunk vectors and serves
// nearest-neighbour queries. All operations are scoped to a document or
// a chunk set, never global.
//
// Implementations may include:
//   - Supabase/Postgres with pgvector (via the PostgREST API)
//   - SQLite with in-process cosine ranking
//   - A no-op variant for degraded operation without a backing store
type VectorStore interface {
	// UpsertDocument inserts or updates a DocumentRecord keyed by its
	// identifier. Idempotent: identical input leaves identical state.
	UpsertDocument(ctx context.Context, doc domain.DocumentRecord) error

	// UpsertChunks inserts or updates ChunkRecords keyed by chunk
	// identifier. A no-op for an empty batch. Every embedding length is
	// validated against the configured dimension before any write is
	// issued; the whole batch is rejected on the first mismatch.
	UpsertChunks(ctx context.Context, chunks []domain.ChunkRecord) error

	// DeleteDocumentChunks removes all chunk records for the document.
	// Idempotent; deleting a document with no chunks succeeds silently.
	DeleteDocumentChunks(ctx context.Context, documentID string) error

	// QueryByVector returns up to limit chunk records ranked by
	// similarity, highest first. The vector length is validated against
	// the configured dimension before the backing store is queried.
	QueryByVector(ctx context.Context, vector []float32, limit int) ([]domain.QueryResult, error)

	// Close releases resources.
	Close() error
}
