package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightbooking/internal/filter"
	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/page"
)

type apiSearchRequest struct {
	models.SearchRequest
	Filters   *filter.Criteria `json:"filters,omitempty"`
	SortBy    string           `json:"sort_by,omitempty"`
	SortOrder string           `json:"sort_order,omitempty"`
}

type searchMetadata struct {
	TotalResults int    `json:"total_results"`
	SearchTimeMs int64  `json:"search_time_ms"`
	Route        string `json:"route"`
}

type apiSearchResponse struct {
	SearchCriteria models.SearchRequest `json:"search_criteria"`
	Metadata       searchMetadata       `json:"metadata"`
	Flights        []models.FlightOffer `json:"flights"`
}

// SearchHandler serves flight search as JSON without touching the visitor's
// page state.
type SearchHandler struct {
	searcher page.Searcher
}

func NewSearchHandler(s page.Searcher) *SearchHandler {
	return &SearchHandler{searcher: s}
}

func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var req apiSearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := req.SearchRequest.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	offers, err := h.searcher.Search(ctx, req.SearchRequest)
	if err != nil {
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "search_error",
			Message: models.UserMessage(err, page.MsgSearchFailed),
			Code:    http.StatusBadGateway,
		})
	}

	filtered := filter.Apply(offers, req.Filters, req.SortBy, req.SortOrder)
	if filtered == nil {
		filtered = []models.FlightOffer{}
	}

	return c.JSON(http.StatusOK, apiSearchResponse{
		SearchCriteria: req.SearchRequest,
		Metadata: searchMetadata{
			TotalResults: len(filtered),
			SearchTimeMs: time.Since(startTime).Milliseconds(),
			Route:        req.SearchRequest.Route(),
		},
		Flights: filtered,
	})
}
