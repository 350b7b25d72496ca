package domain

// DocumentRecord is the persisted representation of a source document.
// One record exists per distinct document identifier; it is upserted,
// never duplicated.
type DocumentRecord struct {
	// ID is the document identifier and primary key.
	ID string

	// Title is the document title.
	Title string

	// Source tags the origin of the document, e.g. "google-docs".
	Source string

	// Metadata carries revision markers, timestamps and the source URI.
	Metadata map[string]any
}

// ChunkRecord is the persisted representation of one embedded chunk.
// Chunk identifiers are regenerated on every ingestion cycle and never
// reused across revisions.
type ChunkRecord struct {
	// ID is the globally unique chunk identifier, generated at write time.
	ID string

	// DocumentID references the owning DocumentRecord.
	DocumentID string

	// Content is the chunk text.
	Content string

	// Source tags the origin of the chunk.
	Source string

	// Ordering is the chunk's position within the document.
	Ordering int

	// Embedding is the chunk vector. Its length must equal the
	// configured embedding dimension.
	Embedding []float32

	// Metadata merges document-level markers with chunk heading info.
	Metadata map[string]any
}

// QueryResult is one ranked hit from a vector store query.
type QueryResult struct {
	// ChunkID identifies the matched chunk.
	ChunkID string `json:"chunkId"`

	// DocumentID identifies the owning document.
	DocumentID string `json:"documentId"`

	// Content is the matched chunk text.
	Content string `json:"content"`

	// Score is the similarity score (1 - cosine distance). Higher is
	// closer.
	Score float64 `json:"score"`

	// Metadata is the stored chunk metadata.
	Metadata map[string]any `json:"metadata,omitempty"`
}
