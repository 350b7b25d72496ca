package driving

import (
	"context"

	"github.com/vellum-labs/vellum/internal/core/domain"
)

// IngestionPipeline coordinates the full ingest cycle for one document:
// fetch, chunk, embed, and replace the stored chunk set.
type IngestionPipeline interface {
	// Enqueue runs one ingestion cycle synchronously. A request without
	// a file identifier is rejected before any work is done. Concurrent
	// calls for different documents run without coordination; calls for
	// the same document serialise their store mutations.
	Enqueue(ctx context.Context, req domain.IngestionRequest) error
}
