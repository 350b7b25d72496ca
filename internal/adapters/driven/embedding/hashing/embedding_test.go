package hashing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingService(t *testing.T) {
	t.Run("valid dimensions", func(t *testing.T) {
		s, err := NewEmbeddingService(64)
		require.NoError(t, err)
		assert.Equal(t, 64, s.Dimensions())
		assert.Equal(t, ModelName, s.ModelName())
	})

	t.Run("invalid dimensions", func(t *testing.T) {
		_, err := NewEmbeddingService(0)
		assert.Error(t, err)
	})
}

func TestEmbedTexts_LengthContract(t *testing.T) {
	s, err := NewEmbeddingService(128)
	require.NoError(t, err)

	t.Run("empty input", func(t *testing.T) {
		vectors, err := s.EmbedTexts(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, vectors)
	})

	t.Run("one vector per input", func(t *testing.T) {
		inputs := []string{"alpha", "beta", "gamma"}
		vectors, err := s.EmbedTexts(context.Background(), inputs)
		require.NoError(t, err)
		require.Len(t, vectors, len(inputs))
		for _, v := range vectors {
			assert.Len(t, v, 128)
		}
	})
}

func TestEmbedTexts_Deterministic(t *testing.T) {
	s, err := NewEmbeddingService(1536)
	require.NoError(t, err)

	first, err := s.EmbedTexts(context.Background(), []string{"hello world", "hello world"})
	require.NoError(t, err)
	assert.Equal(t, first[0], first[1], "identical inputs in one call must match")

	second, err := s.EmbedTexts(context.Background(), []string{"hello world"})
	require.NoError(t, err)
	assert.Equal(t, first[0], second[0], "identical inputs across calls must match")

	other, err := s.EmbedTexts(context.Background(), []string{"hello worlds"})
	require.NoError(t, err)
	assert.NotEqual(t, first[0], other[0], "different inputs should differ")
}

func TestEmbedTexts_ValueRange(t *testing.T) {
	s, err := NewEmbeddingService(300)
	require.NoError(t, err)

	vectors, err := s.EmbedTexts(context.Background(), []string{"range check"})
	require.NoError(t, err)
	for _, value := range vectors[0] {
		assert.GreaterOrEqual(t, value, float32(0))
		assert.LessOrEqual(t, value, float32(1))
	}
}
