package driving

import (
	"context"

	"github.com/vellum-labs/vellum/internal/core/domain"
)

// SearchService serves semantic search over the ingested corpus.
type SearchService interface {
	// Search embeds the query and returns the closest stored chunks,
	// ranked by similarity. An empty query is rejected before the
	// embedding step; an error is distinct from an empty result set.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.QueryResult, error)
}
