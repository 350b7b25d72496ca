package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates an embedding whose length does not
	// equal the configured dimension. Never silently padded or truncated.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingCountMismatch indicates the embedding provider
	// returned a different number of vectors than inputs. Fatal for the
	// calling ingestion cycle.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")

	// ErrFetcherUnavailable indicates the document fetcher is not
	// configured. Ingestion is disabled without source credentials.
	ErrFetcherUnavailable = errors.New("document fetcher unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic search and ingestion are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
