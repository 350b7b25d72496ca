package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vellum-labs/vellum/internal/core/domain"
	"github.com/vellum-labs/vellum/internal/core/ports/driven"
	"github.com/vellum-labs/vellum/internal/core/ports/driving"
)

var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers semantic queries by embedding the query text
// and ranking stored chunks by vector similarity.
type SearchService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

func NewSearchService(embedder driven.EmbeddingService, store driven.VectorStore) *SearchService {
	return &SearchService{
		embedder: embedder,
		store:    store,
	}
}

// Search embeds the query and returns the most similar chunks. A blank
// query is rejected rather than matched against everything.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.QueryResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	opts = opts.Normalized()

	embeddings, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("%w: expected 1 query embedding, received %d",
			domain.ErrEmbeddingCountMismatch, len(embeddings))
	}

	results, err := s.store.QueryByVector(ctx, embeddings[0], opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}
	return results, nil
}
