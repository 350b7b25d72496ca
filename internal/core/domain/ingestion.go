package domain

// IngestionRequest describes one request to (re)ingest a source document.
// FileID is required; the remaining fields are informational markers
// carried over from the triggering webhook notification.
type IngestionRequest struct {
	FileID        string
	ResourceID    string
	ResourceState string
	MessageNumber string
	HistoryID     string
}
