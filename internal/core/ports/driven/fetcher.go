package driven

import (
	"context"

	"github.com/vellum-labs/vellum/internal/core/domain"
)

// DocumentFetcher retrieves and normalises a source document by its
// stable identifier. Fetch failures are propagated as-is; the core does
// not distinguish fetch-error subtypes and performs no retries.
type DocumentFetcher interface {
	// FetchDocument returns the normalised document for fileID,
	// including its ordered segments with heading annotations.
	FetchDocument(ctx context.Context, fileID string) (*domain.Document, error)
}
