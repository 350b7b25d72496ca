package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/vellum-labs/vellum/internal/core/ports/driving"
)

// Server hosts the HTTP endpoints: health, the Google Drive webhook,
// and semantic search.
type Server struct {
	echo      *echo.Echo
	ingestion driving.IngestionPipeline
	search    driving.SearchService

	// webhookSecret, when set, must match the X-Goog-Channel-Token
	// header on webhook deliveries.
	webhookSecret string
}

// NewServer wires the handlers onto a fresh echo instance.
func NewServer(ingestion driving.IngestionPipeline, search driving.SearchService, webhookSecret string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())

	s := &Server{
		echo:          e,
		ingestion:     ingestion,
		search:        search,
		webhookSecret: webhookSecret,
	}

	e.GET("/healthz", s.handleHealth)
	e.POST("/webhooks/google-drive", s.handleGoogleDriveWebhook)
	e.POST("/search", s.handleSearch)

	return s
}

// Start listens on host:port and blocks until the server stops.
func (s *Server) Start(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
