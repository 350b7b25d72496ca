// Package embedding selects and constructs the embedding provider.
package embedding

import (
	"github.com/vellum-labs/vellum/internal/adapters/driven/embedding/hashing"
	"github.com/vellum-labs/vellum/internal/adapters/driven/embedding/openai"
	"github.com/vellum-labs/vellum/internal/config"
	"github.com/vellum-labs/vellum/internal/core/ports/driven"
	"github.com/vellum-labs/vellum/internal/logger"
)

// NewFromConfig creates the OpenAI provider when an API key is
// configured, otherwise the deterministic hashing stand-in. The
// stand-in keeps ingestion and search runnable end to end in
// development, with meaningless similarity scores.
func NewFromConfig(cfg *config.Config) (driven.EmbeddingService, error) {
	if cfg.Embeddings.OpenAIAPIKey != "" {
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.Embeddings.OpenAIAPIKey,
			Model:      cfg.Embeddings.Model,
			Dimensions: cfg.Embeddings.Dimensions,
		})
	}

	logger.Warn("no embedding provider configured, using deterministic hashing embeddings")
	return hashing.NewEmbeddingService(cfg.Embeddings.Dimensions)
}
