package google

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"

	"github.com/vellum-labs/vellum/internal/core/domain"
	"github.com/vellum-labs/vellum/internal/core/ports/driven"
)

// driveMetadataFields is the projection requested from Drive for each
// fetched file.
const driveMetadataFields = "id, name, parents, modifiedTime, version, headRevisionId"

var _ driven.DocumentFetcher = (*DocsFetcher)(nil)

// DocsFetcher fetches Google Docs documents and normalises them for
// ingestion. Document structure comes from the Docs API and revision
// metadata from the Drive API; both calls run concurrently and are
// rate limited per service.
type DocsFetcher struct {
	docs  *docs.Service
	drive *drive.Service

	// watchFolderID, when set, restricts fetches to files whose Drive
	// parents include this folder. Webhook payloads are attacker
	// influenced, so the restriction is enforced here rather than
	// trusted upstream.
	watchFolderID string

	docsLimiter  *RateLimiter
	driveLimiter *RateLimiter
}

// NewDocsFetcher creates a fetcher over the given API services.
// watchFolderID may be empty to allow any document shared with the
// service account.
func NewDocsFetcher(docsSvc *docs.Service, driveSvc *drive.Service, watchFolderID string) *DocsFetcher {
	return &DocsFetcher{
		docs:          docsSvc,
		drive:         driveSvc,
		watchFolderID: watchFolderID,
		docsLimiter:   NewRateLimiter(ServiceDocs),
		driveLimiter:  NewRateLimiter(ServiceDrive),
	}
}

// FetchDocument retrieves the document body and its Drive metadata and
// converts them into the normalised form the ingestion pipeline expects.
func (f *DocsFetcher) FetchDocument(ctx context.Context, fileID string) (*domain.Document, error) {
	if fileID == "" {
		return nil, fmt.Errorf("%w: file id is empty", domain.ErrInvalidInput)
	}

	var (
		wg       sync.WaitGroup
		doc      *docs.Document
		docErr   error
		file     *drive.File
		driveErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		doc, docErr = f.fetchDoc(ctx, fileID)
	}()
	go func() {
		defer wg.Done()
		file, driveErr = f.fetchDriveMetadata(ctx, fileID)
	}()
	wg.Wait()

	if docErr != nil {
		return nil, fmt.Errorf("fetch document body %s: %w", fileID, WrapError(docErr))
	}
	if driveErr != nil {
		return nil, fmt.Errorf("fetch drive metadata %s: %w", fileID, WrapError(driveErr))
	}

	if f.watchFolderID != "" && !containsString(file.Parents, f.watchFolderID) {
		return nil, fmt.Errorf("%w: file %s is not in folder %s",
			ErrOutsideWatchFolder, fileID, f.watchFolderID)
	}

	var body []*docs.StructuralElement
	if doc.Body != nil {
		body = doc.Body.Content
	}
	segments := extractSegments(body)

	id := doc.DocumentId
	if id == "" {
		id = fileID
	}
	title := doc.Title
	if title == "" {
		title = file.Name
	}
	if title == "" {
		title = "Untitled"
	}

	return &domain.Document{
		ID:           id,
		Title:        title,
		RevisionID:   doc.RevisionId,
		Version:      formatVersion(file.Version),
		ModifiedTime: file.ModifiedTime,
		Text:         joinSegments(segments),
		Segments:     segments,
	}, nil
}

func (f *DocsFetcher) fetchDoc(ctx context.Context, fileID string) (*docs.Document, error) {
	if err := f.docsLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	doc, err := f.docs.Documents.Get(fileID).Context(ctx).Do()
	if err != nil && IsRateLimited(err) {
		f.docsLimiter.RecordRateLimitError(0)
	}
	return doc, err
}

func (f *DocsFetcher) fetchDriveMetadata(ctx context.Context, fileID string) (*drive.File, error) {
	if err := f.driveLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	file, err := f.drive.Files.Get(fileID).
		Fields(driveMetadataFields).
		Context(ctx).
		Do()
	if err != nil && IsRateLimited(err) {
		f.driveLimiter.RecordRateLimitError(0)
	}
	return file, err
}

func formatVersion(version int64) string {
	if version == 0 {
		return ""
	}
	return fmt.Sprintf("%d", version)
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
