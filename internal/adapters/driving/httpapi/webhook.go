package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vellum-labs/vellum/internal/core/domain"
	"github.com/vellum-labs/vellum/internal/logger"
)

// Google push notification headers.
const (
	headerChannelToken  = "X-Goog-Channel-Token"
	headerResourceURI   = "X-Goog-Resource-URI"
	headerResourceID    = "X-Goog-Resource-ID"
	headerResourceState = "X-Goog-Resource-State"
	headerMessageNumber = "X-Goog-Message-Number"
	headerChanged       = "X-Goog-Changed"
)

// webhookBody is the optional JSON payload of a push notification.
// Google's own notifications carry no body; test deliveries and
// manual triggers identify the file here.
type webhookBody struct {
	FileID     string `json:"fileId"`
	ID         string `json:"id"`
	ResourceID string `json:"resourceId"`
}

// handleGoogleDriveWebhook accepts a Drive change notification and runs
// an ingestion cycle for the referenced file. The shared secret is
// checked before anything in the payload is even parsed.
func (s *Server) handleGoogleDriveWebhook(c echo.Context) error {
	if s.webhookSecret != "" {
		provided := c.Request().Header.Get(headerChannelToken)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(s.webhookSecret)) != 1 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
		}
	}

	fileID := extractFileID(c.Request())
	if fileID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing_file_id"})
	}

	req := domain.IngestionRequest{
		FileID:        fileID,
		ResourceID:    c.Request().Header.Get(headerResourceID),
		ResourceState: c.Request().Header.Get(headerResourceState),
		MessageNumber: c.Request().Header.Get(headerMessageNumber),
		HistoryID:     c.Request().Header.Get(headerChanged),
	}

	if err := s.ingestion.Enqueue(c.Request().Context(), req); err != nil {
		logger.Error("webhook ingestion for file %s failed: %v", fileID, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "ingestion_failure"})
	}

	return c.JSON(http.StatusAccepted, map[string]any{"accepted": true, "fileId": fileID})
}

// extractFileID resolves the file identifier from the request body,
// falling back to the last path segment of the resource URI header.
func extractFileID(r *http.Request) string {
	if r.Body != nil {
		data, err := io.ReadAll(r.Body)
		if err == nil && len(data) > 0 {
			var body webhookBody
			if json.Unmarshal(data, &body) == nil {
				for _, candidate := range []string{body.FileID, body.ID, body.ResourceID} {
					if candidate != "" {
						return candidate
					}
				}
			}
		}
	}

	resourceURI := r.Header.Get(headerResourceURI)
	if resourceURI == "" {
		return ""
	}
	parsed, err := url.Parse(resourceURI)
	if err != nil {
		return ""
	}
	segments := strings.FieldsFunc(parsed.Path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}
