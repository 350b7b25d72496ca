package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vellum-labs/vellum/internal/core/domain"
	"github.com/vellum-labs/vellum/internal/logger"
)

// searchRequest is the POST /search payload. Limit is a pointer so an
// omitted limit and an explicit zero can be told apart: omitted means
// the default, anything provided is clamped to at least 1.
type searchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit"`
}

type searchResponse struct {
	Results []domain.QueryResult `json:"results"`
}

func (s *Server) handleSearch(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid_json"})
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing_query"})
	}

	limit := domain.DefaultSearchLimit
	if req.Limit != nil {
		limit = *req.Limit
		if limit < 1 {
			limit = 1
		}
	}

	results, err := s.search.Search(c.Request().Context(), req.Query, domain.SearchOptions{Limit: limit})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing_query"})
		}
		logger.Error("search failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "search_failure"})
	}

	if results == nil {
		results = []domain.QueryResult{}
	}
	return c.JSON(http.StatusOK, searchResponse{Results: results})
}
