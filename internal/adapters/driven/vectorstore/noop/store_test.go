package noop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum-labs/vellum/internal/core/domain"
)

func TestStore_WritesAreHarmless(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	assert.NoError(t, s.UpsertDocument(ctx, domain.DocumentRecord{ID: "doc-1"}))
	assert.NoError(t, s.UpsertChunks(ctx, []domain.ChunkRecord{{ID: "chunk-1"}}))
	assert.NoError(t, s.DeleteDocumentChunks(ctx, "doc-1"))
	assert.NoError(t, s.Close())
}

func TestStore_QueryReturnsEmpty(t *testing.T) {
	s := NewStore()

	results, err := s.QueryByVector(context.Background(), []float32{0.1, 0.2}, 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
