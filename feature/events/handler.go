package events

import (
	"errors"
	"time"

	"event-catalog/core/logger"
	"event-catalog/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SearchData is the payload of a successful search.
type SearchData struct {
	Events []EventSummary `json:"events"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code" example:"invalid_request"`
	Message string `json:"message" example:"ends_at must be after starts_at"`
}

// SearchResponse is the envelope of every /search response.
type SearchResponse struct {
	Data  *SearchData `json:"data"`
	Error *ErrorBody  `json:"error"`
}

var errInvalidRange = errors.New("ends_at must be after starts_at")

// Handler handles HTTP requests for event search.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the search routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/search", h.HandleSearch)
}

// HandleSearch lists the events available in a time range.
// @Summary Search events
// @Description Lists the events ever sold online with a plan starting between starts_at and ends_at (inclusive).
// @Tags events
// @Produce json
// @Param starts_at query string true "Range start (RFC3339)" example(2021-06-01T00:00:00Z)
// @Param ends_at query string true "Range end (RFC3339)" example(2021-07-31T23:59:59Z)
// @Success 200 {object} SearchResponse "Matching events"
// @Failure 400 {object} SearchResponse "Invalid range"
// @Failure 500 {object} SearchResponse "Internal Server Error"
// @Router /search [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	startsAt, endsAt, err := parseRange(c.Query("starts_at"), c.Query("ends_at"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(SearchResponse{
			Error: &ErrorBody{Code: "invalid_request", Message: err.Error()},
		})
	}

	summaries, err := h.service.Search(c.UserContext(), startsAt, endsAt)
	if err != nil {
		l.Error("Search failed", zap.Time("starts_at", startsAt), zap.Time("ends_at", endsAt), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(SearchResponse{
			Error: &ErrorBody{Code: "internal_error", Message: "search failed"},
		})
	}

	return c.JSON(SearchResponse{Data: &SearchData{Events: summaries}})
}

func parseRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	if rawStart == "" || rawEnd == "" {
		return time.Time{}, time.Time{}, errors.New("starts_at and ends_at are required")
	}
	startsAt, err := utils.ToTimestamp(rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("starts_at: " + err.Error())
	}
	endsAt, err := utils.ToTimestamp(rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("ends_at: " + err.Error())
	}
	if !endsAt.After(startsAt) {
		return time.Time{}, time.Time{}, errInvalidRange
	}
	return startsAt, endsAt, nil
}
