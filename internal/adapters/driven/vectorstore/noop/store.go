// Package noop provides a vector store that accepts writes as harmless
// no-ops and returns empty query results. It keeps the serving path up
// when no backing store is configured or reachable: ingestion and
// search degrade to "search returns nothing" instead of crashing.
package noop

import (
	"context"

	"github.com/vellum-labs/vellum/internal/core/domain"
	"github.com/vellum-labs/vellum/internal/core/ports/driven"
	"github.com/vellum-labs/vellum/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is the degraded-mode vector store.
type Store struct{}

// NewStore creates a no-op vector store.
func NewStore() *Store {
	return &Store{}
}

// UpsertDocument logs and discards the document.
func (s *Store) UpsertDocument(_ context.Context, doc domain.DocumentRecord) error {
	logger.Warn("vector store not configured; skipping document %s", doc.ID)
	return nil
}

// UpsertChunks logs and discards the chunks.
func (s *Store) UpsertChunks(_ context.Context, chunks []domain.ChunkRecord) error {
	logger.Warn("vector store not configured; skipping %d chunks", len(chunks))
	return nil
}

// DeleteDocumentChunks logs and does nothing.
func (s *Store) DeleteDocumentChunks(_ context.Context, documentID string) error {
	logger.Warn("vector store not configured; cannot delete chunks for document %s", documentID)
	return nil
}

// QueryByVector logs and returns no results.
func (s *Store) QueryByVector(_ context.Context, _ []float32, _ int) ([]domain.QueryResult, error) {
	logger.Warn("vector store not configured; returning no results")
	return []domain.QueryResult{}, nil
}

// Close releases nothing.
func (s *Store) Close() error {
	return nil
}
