// Package hashing provides a deterministic, non-semantic embedding
// stand-in for use when no real embedding backend is configured.
//
// Vectors are derived by expanding a SHA-256 hash of the input text to
// the configured dimension. Identical text always produces identical
// vectors, so tests and deduplication behave predictably; the vectors
// carry no semantic meaning.
package hashing

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/vellum-labs/vellum/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// ModelName reported by this stand-in.
const ModelName = "hashing-deterministic"

// EmbeddingService derives pseudo-embeddings from input content.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a hashing embedding service with the
// given dimension.
func NewEmbeddingService(dimensions int) (*EmbeddingService, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("hashing: dimensions must be positive, got %d", dimensions)
	}
	return &EmbeddingService{dimensions: dimensions}, nil
}

// EmbedTexts returns one deterministic vector per input, in input order.
func (s *EmbeddingService) EmbedTexts(_ context.Context, inputs []string) ([][]float32, error) {
	vectors := make([][]float32, len(inputs))
	for i, input := range inputs {
		vectors[i] = s.expand(input)
	}
	return vectors, nil
}

// expand stretches repeated hashes of the input until the vector is
// full. Each byte is scaled into [0, 1].
func (s *EmbeddingService) expand(input string) []float32 {
	vector := make([]float32, 0, s.dimensions)
	seed := input

	for len(vector) < s.dimensions {
		sum := sha256.Sum256([]byte(seed))
		for _, b := range sum {
			vector = append(vector, float32(b)/255)
			if len(vector) == s.dimensions {
				break
			}
		}
		seed = fmt.Sprintf("%s:%d", seed, len(vector))
	}

	return vector
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName identifies this implementation as a non-semantic stand-in.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}
