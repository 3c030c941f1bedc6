package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/biometricleads/leads-system/internal/core/ports"
)

// searchFilterParams are the query parameter names forwarded as exact-match
// filters. Everything else in the query string is ignored; unknown filter
// fields inside this set are rejected by the service.
var searchFilterParams = []string{"name", "email", "phone", "location", "status", "type", "is_read"}

// SearchHandler handles the cross-entity search endpoints.
type SearchHandler struct {
	search ports.SearchService
}

func NewSearchHandler(search ports.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search handles GET /v1/search.
//
// @Summary      Cross-entity keyword search
// @Tags         search
// @Produce      json
// @Security     BearerAuth
// @Param        q      query     string  false  "Search query"
// @Param        model  query     string  false  "Restrict to lead, biometric or notification (repeatable)"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size (max 50)"
// @Success      200    {object}  searchResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /v1/search [get]
func (h *SearchHandler) Search(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	filters := map[string]string{}
	for _, field := range searchFilterParams {
		if value := c.QueryParam(field); value != "" {
			filters[field] = value
		}
	}

	out, err := h.search.Search(c.Request().Context(), ports.SearchInput{
		Query:   c.QueryParam("q"),
		Models:  c.QueryParams()["model"],
		Filters: filters,
		UserID:  userID,
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, searchResponse{
		Results: out.Results,
		Pagination: paginationResponse{
			Total: out.Total,
			Page:  out.Page,
			Limit: out.Limit,
		},
	})
}

// FilterSuggestions handles GET /v1/search/filters.
//
// @Summary      Allowed search filter values per model
// @Tags         search
// @Produce      json
// @Security     BearerAuth
// @Param        model  query     string  false  "Restrict to lead, biometric or notification (repeatable)"
// @Success      200    {object}  map[string]ports.ModelFilterSuggestions
// @Failure      400    {object}  errorResponse
// @Router       /v1/search/filters [get]
func (h *SearchHandler) FilterSuggestions(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	suggestions, err := h.search.FilterSuggestions(c.Request().Context(), c.QueryParams()["model"])
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, suggestions)
}
