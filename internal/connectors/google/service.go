package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// NewTokenSource builds an OAuth2 token source from service account key
// JSON, scoped to read-only Docs and Drive access. The watched folder
// must be shared with the service account for calls to succeed.
func NewTokenSource(ctx context.Context, credentialsJSON []byte) (oauth2.TokenSource, error) {
	jwtCfg, err := googleauth.JWTConfigFromJSON(credentialsJSON,
		docs.DocumentsReadonlyScope,
		drive.DriveReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return jwtCfg.TokenSource(ctx), nil
}

// NewDocsService creates a Google Docs API service using the provided TokenSource.
func NewDocsService(ctx context.Context, ts oauth2.TokenSource) (*docs.Service, error) {
	svc, err := docs.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create docs service: %w", err)
	}
	return svc, nil
}

// NewDriveService creates a Google Drive API service using the provided TokenSource.
func NewDriveService(ctx context.Context, ts oauth2.TokenSource) (*drive.Service, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}
