package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vellum-labs/vellum/internal/chunker"
	"github.com/vellum-labs/vellum/internal/core/domain"
	"github.com/vellum-labs/vellum/internal/core/ports/driven"
	"github.com/vellum-labs/vellum/internal/core/ports/driving"
	"github.com/vellum-labs/vellum/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionPipeline = (*IngestionService)(nil)

// SourceGoogleDocs tags records originating from Google Docs.
const SourceGoogleDocs = "google-docs"

// IngestionService orchestrates the end-to-end ingest cycle for one
// document: fetch, chunk, embed, and replace the stored chunk set so
// search stays in sync with the source.
type IngestionService struct {
	fetcher  driven.DocumentFetcher
	embedder driven.EmbeddingService
	store    driven.VectorStore
	chunker  *chunker.Chunker

	// locks serialises store mutations per document identifier so two
	// concurrent ingests of the same document cannot interleave their
	// delete/upsert sequences.
	locks *keyedLock
}

// NewIngestionService creates an ingestion pipeline. The fetcher may be
// nil when source credentials are not configured; Enqueue then fails
// with ErrFetcherUnavailable instead of the process refusing to start.
func NewIngestionService(
	fetcher driven.DocumentFetcher,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	chk *chunker.Chunker,
) *IngestionService {
	return &IngestionService{
		fetcher:  fetcher,
		embedder: embedder,
		store:    store,
		chunker:  chk,
		locks:    newKeyedLock(),
	}
}

// Enqueue runs one ingestion cycle synchronously.
//
// The cycle has no persisted intermediate state: it either applies
// fully or fails partway, in which case the store keeps either the
// previous chunk set or, after the delete step, none. A later
// successful cycle for the same document is the remediation.
func (s *IngestionService) Enqueue(ctx context.Context, req domain.IngestionRequest) error {
	if req.FileID == "" {
		return fmt.Errorf("%w: ingestion request missing file id", domain.ErrInvalidInput)
	}
	if s.fetcher == nil {
		return domain.ErrFetcherUnavailable
	}
	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	doc, err := s.fetcher.FetchDocument(ctx, req.FileID)
	if err != nil {
		return fmt.Errorf("fetch document %s: %w", req.FileID, err)
	}

	chunks := s.chunker.Split(doc.Segments)

	unlock := s.locks.Lock(doc.ID)
	defer unlock()

	if len(chunks) == 0 {
		// The document has no ingestible content: drop whatever chunks
		// a previous revision left behind and skip the document upsert.
		logger.Warn("no ingestible text found for document %s", doc.ID)
		if err := s.store.DeleteDocumentChunks(ctx, doc.ID); err != nil {
			return fmt.Errorf("delete chunks for empty document %s: %w", doc.ID, err)
		}
		return nil
	}

	sourceURI := buildGoogleDocURL(doc.ID)

	if err := s.store.UpsertDocument(ctx, domain.DocumentRecord{
		ID:     doc.ID,
		Title:  doc.Title,
		Source: SourceGoogleDocs,
		Metadata: map[string]any{
			"revision_id":   doc.RevisionID,
			"version":       doc.Version,
			"modified_time": doc.ModifiedTime,
			"source_uri":    sourceURI,
		},
	}); err != nil {
		return fmt.Errorf("upsert document %s: %w", doc.ID, err)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d chunks for document %s: %w", len(chunks), doc.ID, err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("%w: document %s expected %d, received %d",
			domain.ErrEmbeddingCountMismatch, doc.ID, len(chunks), len(embeddings))
	}

	records := make([]domain.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		metadata := map[string]any{
			"revision_id":   doc.RevisionID,
			"version":       doc.Version,
			"modified_time": doc.ModifiedTime,
			"source_uri":    sourceURI,
		}
		if chunk.Heading != nil {
			metadata["heading"] = chunk.Heading
			if chunk.Heading.ID != "" {
				metadata["heading_uri"] = fmt.Sprintf("%s#heading=%s", sourceURI, chunk.Heading.ID)
			}
		}

		records[i] = domain.ChunkRecord{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Content:    chunk.Content,
			Source:     SourceGoogleDocs,
			Ordering:   chunk.Ordering,
			Embedding:  embeddings[i],
			Metadata:   metadata,
		}
	}

	// Remove stale chunks before inserting replacements so no chunk
	// from a prior revision survives alongside the new set. Search sees
	// a brief zero-chunk window for this document in exchange.
	if err := s.store.DeleteDocumentChunks(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete stale chunks for document %s: %w", doc.ID, err)
	}
	if err := s.store.UpsertChunks(ctx, records); err != nil {
		return fmt.Errorf("upsert %d chunks for document %s: %w", len(records), doc.ID, err)
	}

	logger.Info("ingested document %s: %d chunks", doc.ID, len(records))
	return nil
}

// buildGoogleDocURL returns the canonical edit URI for a document.
func buildGoogleDocURL(documentID string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", documentID)
}
