package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum-labs/vellum/internal/chunker"
	"github.com/vellum-labs/vellum/internal/core/domain"
)

type mockFetcher struct {
	mu    sync.Mutex
	doc   *domain.Document
	err   error
	calls []string
}

func (m *mockFetcher) FetchDocument(_ context.Context, fileID string) (*domain.Document, error) {
	m.mu.Lock()
	m.calls = append(m.calls, fileID)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

type mockEmbedder struct {
	mu      sync.Mutex
	vectors [][]float32
	err     error
	inputs  [][]string
}

func (m *mockEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, texts)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.vectors != nil {
		return m.vectors, nil
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 0.5, 0.5}
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return 3 }

func (m *mockEmbedder) ModelName() string { return "mock" }

type mockStore struct {
	mu sync.Mutex

	ops []string

	documents []domain.DocumentRecord
	chunks    [][]domain.ChunkRecord
	deletes   []string
	queries   [][]float32

	upsertDocumentErr error
	upsertChunksErr   error
	deleteErr         error
	queryErr          error
	queryResults      []domain.QueryResult
}

func (m *mockStore) UpsertDocument(_ context.Context, doc domain.DocumentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, "upsertDocument")
	m.documents = append(m.documents, doc)
	return m.upsertDocumentErr
}

func (m *mockStore) UpsertChunks(_ context.Context, chunks []domain.ChunkRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, "upsertChunks")
	m.chunks = append(m.chunks, chunks)
	return m.upsertChunksErr
}

func (m *mockStore) DeleteDocumentChunks(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, "deleteDocumentChunks")
	m.deletes = append(m.deletes, documentID)
	return m.deleteErr
}

func (m *mockStore) QueryByVector(_ context.Context, vector []float32, limit int) ([]domain.QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, fmt.Sprintf("queryByVector:%d", limit))
	m.queries = append(m.queries, vector)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.queryResults, nil
}

func (m *mockStore) Close() error { return nil }

func testDocument() *domain.Document {
	return &domain.Document{
		ID:           "doc-1",
		Title:        "Runbook",
		RevisionID:   "rev-7",
		Version:      "42",
		ModifiedTime: "2026-08-30T10:00:00Z",
		Segments: []domain.Segment{
			{Text: "Restart the worker before rotating credentials."},
		},
	}
}

func newTestPipeline(t *testing.T, fetcher *mockFetcher, embedder *mockEmbedder, store *mockStore) *IngestionService {
	t.Helper()
	chk, err := chunker.New()
	require.NoError(t, err)
	return NewIngestionService(fetcher, embedder, store, chk)
}

func TestIngestion_MissingFileID(t *testing.T) {
	store := &mockStore{}
	svc := newTestPipeline(t, &mockFetcher{}, &mockEmbedder{}, store)

	err := svc.Enqueue(context.Background(), domain.IngestionRequest{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.ops)
}

func TestIngestion_NilFetcher(t *testing.T) {
	store := &mockStore{}
	chk, err := chunker.New()
	require.NoError(t, err)
	svc := NewIngestionService(nil, &mockEmbedder{}, store, chk)

	err = svc.Enqueue(context.Background(), domain.IngestionRequest{FileID: "doc-1"})
	require.ErrorIs(t, err, domain.ErrFetcherUnavailable)
	assert.Empty(t, store.ops)
}

func TestIngestion_FetchErrorPropagates(t *testing.T) {
	fetchErr := errors.New("document not found")
	store := &mockStore{}
	svc := newTestPipeline(t, &mockFetcher{err: fetchErr}, &mockEmbedder{}, store)

	err := svc.Enqueue(context.Background(), domain.IngestionRequest{FileID: "doc-1"})
	require.ErrorIs(t, err, fetchErr)
	assert.Empty(t, store.ops)
}

func TestIngestion_EmptyDocumentOnlyDeletes(t *testing.T) {
	doc := testDocument()
	doc.Segments = []domain.Segment{{Text: "   "}, {Text: ""}}

	store := &mockStore{}
	embedder := &mockEmbedder{}
	svc := newTestPipeline(t, &mockFetcher{doc: doc}, embedder, store)

	err := svc.Enqueue(context.Background(), domain.IngestionRequest{FileID: "doc-1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"deleteDocumentChunks"}, store.ops)
	assert.Equal(t, []string{"doc-1"}, store.deletes)
	assert.Empty(t, embedder.inputs, "no embedding requests for an empty document")
}

func TestIngestion_HappyPath(t *testing.T) {
	fetcher := &mockFetcher{doc: testDocument()}
	embedder := &mockEmbedder{}
	store := &mockStore{}
	svc := newTestPipeline(t, fetcher, embedder, store)

	err := svc.Enqueue(context.Background(), domain.IngestionRequest{FileID: "doc-1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"doc-1"}, fetcher.calls)
	assert.Equal(t, []string{"upsertDocument", "deleteDocumentChunks", "upsertChunks"}, store.ops,
		"stale chunks must be removed after embeddings succeed and before the new set is written")

	require.Len(t, store.documents, 1)
	docRecord := store.documents[0]
	assert.Equal(t, "doc-1", docRecord.ID)
	assert.Equal(t, "Runbook", docRecord.Title)
	assert.Equal(t, SourceGoogleDocs, docRecord.Source)
	assert.Equal(t, "rev-7", docRecord.Metadata["revision_id"])
	assert.Equal(t, "42", docRecord.Metadata["version"])
	assert.Equal(t, "2026-08-30T10:00:00Z", docRecord.Metadata["modified_time"])
	assert.Equal(t, "https://docs.google.com/document/d/doc-1/edit", docRecord.Metadata["source_uri"])

	require.Len(t, store.chunks, 1)
	records := store.chunks[0]
	require.Len(t, records, 1)
	record := records[0]
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "doc-1", record.DocumentID)
	assert.Equal(t, SourceGoogleDocs, record.Source)
	assert.Equal(t, 0, record.Ordering)
	assert.Equal(t, "Restart the worker before rotating credentials.", record.Content)
	assert.Equal(t, []float32{0, 0.5, 0.5}, record.Embedding)
	assert.Equal(t, "https://docs.google.com/document/d/doc-1/edit", record.Metadata["source_uri"])
	assert.NotContains(t, record.Metadata, "heading")
}

func TestIngestion_HeadingMetadata(t *testing.T) {
	doc := testDocument()
	doc.Segments = []domain.Segment{
		{Text: "Deploys", Heading: &domain.Heading{Level: 2, Text: "Deploys", ID: "h.abc123"}},
		{Text: "Ship behind a flag first."},
	}

	store := &mockStore{}
	svc := newTestPipeline(t, &mockFetcher{doc: doc}, &mockEmbedder{}, store)

	err := svc.Enqueue(context.Background(), domain.IngestionRequest{FileID: "doc-1"})
	require.NoError(t, err)

	require.Len(t, store.chunks, 1)
	require.Len(t, store.chunks[0], 1)
	metadata := store.chunks[0][0].Metadata

	heading, ok := metadata["heading"].(*domain.Heading)
	require.True(t, ok)
	assert.Equal(t, "Deploys", heading.Text)
	assert.Equal(t, "https://docs.google.com/document/d/doc-1/edit#heading=h.abc123", metadata["heading_uri"])
}

func TestIngestion_CountMismatchAbortsBeforeDelete(t *testing.T) {
	embedder := &mockEmbedder{vectors: [][]float32{}}
	store := &mockStore{}
	svc := newTestPipeline(t, &mockFetcher{doc: testDocument()}, embedder, store)

	err := svc.Enqueue(context.Background(), domain.IngestionRequest{FileID: "doc-1"})
	require.ErrorIs(t, err, domain.ErrEmbeddingCountMismatch)

	assert.Equal(t, []string{"upsertDocument"}, store.ops,
		"existing chunks must survive when embeddings are incomplete")
	assert.Empty(t, store.deletes)
}

func TestIngestion_EmbeddingErrorAbortsBeforeDelete(t *testing.T) {
	embedErr := errors.New("provider unavailable")
	store := &mockStore{}
	svc := newTestPipeline(t, &mockFetcher{doc: testDocument()}, &mockEmbedder{err: embedErr}, store)

	err := svc.Enqueue(context.Background(), domain.IngestionRequest{FileID: "doc-1"})
	require.ErrorIs(t, err, embedErr)
	assert.Empty(t, store.deletes)
	assert.Empty(t, store.chunks)
}

func TestIngestion_DeleteErrorSkipsUpsert(t *testing.T) {
	deleteErr := errors.New("store offline")
	store := &mockStore{deleteErr: deleteErr}
	svc := newTestPipeline(t, &mockFetcher{doc: testDocument()}, &mockEmbedder{}, store)

	err := svc.Enqueue(context.Background(), domain.IngestionRequest{FileID: "doc-1"})
	require.ErrorIs(t, err, deleteErr)
	assert.Empty(t, store.chunks)
}

func TestIngestion_ConcurrentSameDocumentSerialised(t *testing.T) {
	fetcher := &mockFetcher{doc: testDocument()}
	store := &mockStore{}
	svc := newTestPipeline(t, fetcher, &mockEmbedder{}, store)

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = svc.Enqueue(context.Background(), domain.IngestionRequest{FileID: "doc-1"})
		}()
	}
	wg.Wait()

	// Each cycle issues upsertDocument, deleteDocumentChunks, upsertChunks
	// in that order; serialisation means the sequence repeats whole.
	require.Len(t, store.ops, workers*3)
	for i := 0; i < workers; i++ {
		assert.Equal(t, "upsertDocument", store.ops[i*3])
		assert.Equal(t, "deleteDocumentChunks", store.ops[i*3+1])
		assert.Equal(t, "upsertChunks", store.ops[i*3+2])
	}
}
