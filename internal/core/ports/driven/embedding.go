package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - A deterministic hash-based stand-in for offline use
type EmbeddingService interface {
	// EmbedTexts generates one embedding per input, in input order.
	// The returned slice always has exactly len(inputs) elements;
	// implementations may batch internally but must preserve global
	// ordering across batches, and must return an error rather than a
	// short or padded result. An empty input yields an empty result.
	EmbedTexts(ctx context.Context, inputs []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 1536).
	// This must match the vector store configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
