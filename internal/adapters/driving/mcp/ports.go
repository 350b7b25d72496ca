package mcp

import (
	"github.com/vellum-labs/vellum/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point.
type Ports struct {
	// Search provides semantic search over the document index.
	Search driving.SearchService

	// Ingestion triggers an ingestion cycle for a document. Optional:
	// when nil the ingest tool is not registered.
	Ingestion driving.IngestionPipeline
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
