package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum-labs/vellum/internal/core/domain"
)

func TestSearch_EmptyQueryRejected(t *testing.T) {
	store := &mockStore{}
	svc := NewSearchService(&mockEmbedder{}, store)

	for _, query := range []string{"", "   ", "\n\t"} {
		_, err := svc.Search(context.Background(), query, domain.SearchOptions{})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, store.ops)
}

func TestSearch_NilEmbedder(t *testing.T) {
	svc := NewSearchService(nil, &mockStore{})

	_, err := svc.Search(context.Background(), "deploy process", domain.SearchOptions{})
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestSearch_QueryEmbeddedAsSingleBatch(t *testing.T) {
	embedder := &mockEmbedder{vectors: [][]float32{{0.1, 0.2, 0.3}}}
	store := &mockStore{
		queryResults: []domain.QueryResult{
			{ChunkID: "chunk-1", DocumentID: "doc-1", Content: "Deploy behind a flag.", Score: 0.91},
		},
	}
	svc := NewSearchService(embedder, store)

	results, err := svc.Search(context.Background(), "  deploy process  ", domain.SearchOptions{Limit: 1})
	require.NoError(t, err)

	require.Len(t, embedder.inputs, 1)
	assert.Equal(t, []string{"deploy process"}, embedder.inputs[0], "query is trimmed before embedding")

	require.Len(t, store.queries, 1)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, store.queries[0])
	assert.Equal(t, []string{"queryByVector:1"}, store.ops)

	require.Len(t, results, 1)
	assert.Equal(t, "chunk-1", results[0].ChunkID)
}

func TestSearch_DefaultLimit(t *testing.T) {
	embedder := &mockEmbedder{vectors: [][]float32{{1, 0, 0}}}
	store := &mockStore{}
	svc := NewSearchService(embedder, store)

	_, err := svc.Search(context.Background(), "rotation", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"queryByVector:5"}, store.ops)

	store.ops = nil
	_, err = svc.Search(context.Background(), "rotation", domain.SearchOptions{Limit: -3})
	require.NoError(t, err)
	assert.Equal(t, []string{"queryByVector:5"}, store.ops)
}

func TestSearch_EmbeddingErrorPropagates(t *testing.T) {
	embedErr := errors.New("provider unavailable")
	store := &mockStore{}
	svc := NewSearchService(&mockEmbedder{err: embedErr}, store)

	_, err := svc.Search(context.Background(), "rotation", domain.SearchOptions{})
	require.ErrorIs(t, err, embedErr)
	assert.Empty(t, store.ops)
}

func TestSearch_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("store offline")
	svc := NewSearchService(&mockEmbedder{vectors: [][]float32{{1, 0, 0}}}, &mockStore{queryErr: storeErr})

	_, err := svc.Search(context.Background(), "rotation", domain.SearchOptions{})
	require.ErrorIs(t, err, storeErr)
}
