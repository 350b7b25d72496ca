// Package supabase provides a vector store backed by a Supabase
// project. Rows are written through the PostgREST API and nearest
// neighbours come from a pgvector match function defined by the
// project's migrations.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vellum-labs/vellum/internal/core/domain"
	"github.com/vellum-labs/vellum/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultSchema        = "public"
	DefaultDocumentTable = "documents"
	DefaultChunkTable    = "document_chunks"
	DefaultMatchFunction = "match_document_chunks"
	DefaultTimeout       = 30 * time.Second
)

// Config holds configuration for the Supabase vector store.
type Config struct {
	// URL is the project base URL, e.g. https://abc.supabase.co (required).
	URL string

	// ServiceRoleKey authorises writes bypassing row level security (required).
	ServiceRoleKey string

	// Schema is the database schema (default: public).
	Schema string

	// DocumentTable is the document records table (default: documents).
	DocumentTable string

	// ChunkTable is the chunk records table (default: document_chunks).
	ChunkTable string

	// MatchFunction is the pgvector nearest-neighbour RPC
	// (default: match_document_chunks).
	MatchFunction string

	// Dimensions is the embedding vector size (required).
	Dimensions int

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Store is a PostgREST client scoped to the configured tables.
type Store struct {
	client        *http.Client
	baseURL       string
	key           string
	schema        string
	documentTable string
	chunkTable    string
	matchFunction string
	dimensions    int
}

// NewStore creates a Supabase vector store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" || cfg.ServiceRoleKey == "" {
		return nil, fmt.Errorf("supabase: URL and service role key are required")
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("supabase: dimensions must be positive, got %d", cfg.Dimensions)
	}
	if cfg.Schema == "" {
		cfg.Schema = DefaultSchema
	}
	if cfg.DocumentTable == "" {
		cfg.DocumentTable = DefaultDocumentTable
	}
	if cfg.ChunkTable == "" {
		cfg.ChunkTable = DefaultChunkTable
	}
	if cfg.MatchFunction == "" {
		cfg.MatchFunction = DefaultMatchFunction
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client:        &http.Client{Timeout: cfg.Timeout},
		baseURL:       cfg.URL,
		key:           cfg.ServiceRoleKey,
		schema:        cfg.Schema,
		documentTable: cfg.DocumentTable,
		chunkTable:    cfg.ChunkTable,
		matchFunction: cfg.MatchFunction,
		dimensions:    cfg.Dimensions,
	}, nil
}

// documentRow is the documents table shape.
type documentRow struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Source    string         `json:"source"`
	Metadata  map[string]any `json:"metadata"`
	UpdatedAt string         `json:"updated_at"`
}

// chunkRow is the chunk table shape. The embedding is sent as a JSON
// array; PostgREST casts it to the pgvector column type.
type chunkRow struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"document_id"`
	Content    string         `json:"content"`
	Source     string         `json:"source"`
	Ordering   int            `json:"ordering"`
	Embedding  []float32      `json:"embedding"`
	Metadata   map[string]any `json:"metadata"`
	UpdatedAt  string         `json:"updated_at"`
}

// matchRow is one row returned by the match function.
type matchRow struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"document_id"`
	Content    string         `json:"content"`
	Score      float64        `json:"score"`
	Metadata   map[string]any `json:"metadata"`
}

// UpsertDocument inserts or updates a document record keyed by id.
func (s *Store) UpsertDocument(ctx context.Context, doc domain.DocumentRecord) error {
	metadata := doc.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	rows := []documentRow{{
		ID:        doc.ID,
		Title:     doc.Title,
		Source:    doc.Source,
		Metadata:  metadata,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}}

	if err := s.upsert(ctx, s.documentTable, rows); err != nil {
		return fmt.Errorf("supabase: document upsert failed: %w", err)
	}
	return nil
}

// UpsertChunks inserts or updates chunk records keyed by chunk id.
// Every embedding is validated against the configured dimension before
// any request is issued.
func (s *Store) UpsertChunks(ctx context.Context, chunks []domain.ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.dimensions {
			return fmt.Errorf("%w: chunk %s has length %d, configured dimension is %d",
				domain.ErrDimensionMismatch, chunk.ID, len(chunk.Embedding), s.dimensions)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	rows := make([]chunkRow, len(chunks))
	for i, chunk := range chunks {
		metadata := chunk.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		rows[i] = chunkRow{
			ID:         chunk.ID,
			DocumentID: chunk.DocumentID,
			Content:    chunk.Content,
			Source:     chunk.Source,
			Ordering:   chunk.Ordering,
			Embedding:  chunk.Embedding,
			Metadata:   metadata,
			UpdatedAt:  now,
		}
	}

	if err := s.upsert(ctx, s.chunkTable, rows); err != nil {
		return fmt.Errorf("supabase: chunk upsert failed: %w", err)
	}
	return nil
}

// DeleteDocumentChunks removes all chunks for the document.
func (s *Store) DeleteDocumentChunks(ctx context.Context, documentID string) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?document_id=eq.%s",
		s.baseURL, s.chunkTable, url.QueryEscape(documentID))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("supabase: creating delete request: %w", err)
	}
	s.setHeaders(req)

	if err := s.do(req); err != nil {
		return fmt.Errorf("supabase: chunk deletion failed: %w", err)
	}
	return nil
}

// QueryByVector calls the match function and returns ranked results.
func (s *Store) QueryByVector(ctx context.Context, vector []float32, limit int) ([]domain.QueryResult, error) {
	if len(vector) != s.dimensions {
		return nil, fmt.Errorf("%w: query vector has length %d, configured dimension is %d",
			domain.ErrDimensionMismatch, len(vector), s.dimensions)
	}

	payload, err := json.Marshal(map[string]any{
		"query_embedding": vector,
		"match_count":     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("supabase: marshalling rpc payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/rpc/%s", s.baseURL, s.matchFunction)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("supabase: creating rpc request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase: vector match failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("supabase: reading rpc response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("supabase: vector match failed: status %d: %s", resp.StatusCode, body)
	}

	var rows []matchRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("supabase: decoding rpc response: %w", err)
	}

	results := make([]domain.QueryResult, len(rows))
	for i, row := range rows {
		metadata := row.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		results[i] = domain.QueryResult{
			ChunkID:    row.ID,
			DocumentID: row.DocumentID,
			Content:    row.Content,
			Score:      row.Score,
			Metadata:   metadata,
		}
	}

	return results, nil
}

// Close releases nothing; the HTTP client holds no persistent state.
func (s *Store) Close() error {
	return nil
}

// upsert POSTs rows with merge-duplicates resolution keyed by id.
func (s *Store) upsert(ctx context.Context, table string, rows any) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshalling rows: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?on_conflict=id", s.baseURL, table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	return s.do(req)
}

// setHeaders applies auth, content type and schema selection.
func (s *Store) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Content-Type", "application/json")
	if s.schema != DefaultSchema {
		req.Header.Set("Accept-Profile", s.schema)
		req.Header.Set("Content-Profile", s.schema)
	}
}

// do executes a request expecting a 2xx status with no useful body.
func (s *Store) do(req *http.Request) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return nil
}
