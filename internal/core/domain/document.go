package domain

// Heading describes a section heading encountered in a source document.
type Heading struct {
	// Level is the heading depth, starting at 1.
	Level int `json:"level"`

	// Text is the heading text.
	Text string `json:"text"`

	// ID is the stable anchor identifier, when the source provides one.
	// It can be appended to the document URI as a fragment to deep-link
	// into the section.
	ID string `json:"id,omitempty"`
}

// Segment is one contiguous unit of document text, typically a paragraph
// or a table cell. Segment order is source order and determines chunk
// boundaries downstream.
type Segment struct {
	// Text is the segment content.
	Text string

	// Heading is set when the segment is a section heading.
	Heading *Heading
}

// Document is the normalised result of fetching a source document.
// It is built fresh on every ingestion, never mutated, and discarded
// after chunking.
type Document struct {
	// ID is the stable identifier of the source document.
	ID string

	// Title is the human-readable title.
	Title string

	// RevisionID is the source revision marker, when available.
	RevisionID string

	// Version is the source version counter, when available.
	Version string

	// ModifiedTime is the last-modified timestamp reported by the
	// source, as an RFC 3339 string, when available.
	ModifiedTime string

	// Text is the full concatenated document text.
	Text string

	// Segments is the ordered sequence of text segments.
	Segments []Segment
}

// Chunk is a bounded slice of document text prepared for embedding.
type Chunk struct {
	// Content is the chunk text. Always non-empty after trimming.
	Content string

	// Ordering is the zero-based position of the chunk within its
	// document. Dense and monotonic: it only advances when a chunk is
	// actually emitted.
	Ordering int

	// Heading is the most recent heading seen before or during the
	// chunk's accumulation, or nil for content preceding any heading.
	Heading *Heading
}
