// Package vectorstore selects and constructs the vector store variant.
package vectorstore

import (
	"fmt"

	"github.com/vellum-labs/vellum/internal/adapters/driven/vectorstore/noop"
	"github.com/vellum-labs/vellum/internal/adapters/driven/vectorstore/sqlite"
	"github.com/vellum-labs/vellum/internal/adapters/driven/vectorstore/supabase"
	"github.com/vellum-labs/vellum/internal/config"
	"github.com/vellum-labs/vellum/internal/core/ports/driven"
	"github.com/vellum-labs/vellum/internal/logger"
)

// Store variant names accepted in configuration.
const (
	VariantSupabase = "supabase"
	VariantSQLite   = "sqlite"
	VariantNoop     = "noop"
)

// NewFromConfig creates the vector store the configuration asks for.
// With no explicit variant it prefers supabase when credentials are
// present, then the local sqlite store, and finally the noop store so
// the service can still start degraded.
func NewFromConfig(cfg *config.Config) (driven.VectorStore, error) {
	switch cfg.Store {
	case VariantSupabase:
		return newSupabase(cfg)
	case VariantSQLite:
		return newSQLite(cfg)
	case VariantNoop:
		logger.Warn("vector store disabled: writes are dropped and searches return nothing")
		return noop.NewStore(), nil
	case "":
		// Automatic selection below.
	default:
		return nil, fmt.Errorf("unknown vector store variant %q", cfg.Store)
	}

	if cfg.Supabase.URL != "" && cfg.Supabase.ServiceRoleKey != "" {
		return newSupabase(cfg)
	}

	store, err := newSQLite(cfg)
	if err != nil {
		logger.Warn("local vector store unavailable (%v), continuing without persistence", err)
		return noop.NewStore(), nil
	}
	logger.Info("using local sqlite vector store")
	return store, nil
}

func newSupabase(cfg *config.Config) (driven.VectorStore, error) {
	return supabase.NewStore(supabase.Config{
		URL:            cfg.Supabase.URL,
		ServiceRoleKey: cfg.Supabase.ServiceRoleKey,
		Schema:         cfg.Supabase.Schema,
		DocumentTable:  cfg.Supabase.DocumentTable,
		ChunkTable:     cfg.Supabase.ChunkTable,
		MatchFunction:  cfg.Supabase.MatchFunction,
		Dimensions:     cfg.Embeddings.Dimensions,
	})
}

func newSQLite(cfg *config.Config) (driven.VectorStore, error) {
	return sqlite.NewStore(cfg.DataDir, cfg.Embeddings.Dimensions)
}
