package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openrelief/portal/backend/internal/repositories"
	"github.com/openrelief/portal/backend/internal/schedule"
)

// ConflictHandler detects date-range overlaps between a candidate booking and
// existing events and training sessions on the venue calendar.
type ConflictHandler struct {
	eventRepository    repositories.EventRepository
	trainingRepository repositories.TrainingRepository
}

// NewConflictHandler creates a new ConflictHandler
func NewConflictHandler(eventRepo repositories.EventRepository, trainingRepo repositories.TrainingRepository) *ConflictHandler {
	return &ConflictHandler{
		eventRepository:    eventRepo,
		trainingRepository: trainingRepo,
	}
}

// RegisterConflictRoutes registers conflict-check routes
func (h *ConflictHandler) RegisterConflictRoutes(g *echo.Group) {
	g.POST("/conflicts", h.CheckConflicts)
}

// ConflictCheckRequest defines the candidate interval to test. EventID is set
// when editing an existing event so the record does not conflict with itself.
type ConflictCheckRequest struct {
	StartDate string `json:"start_date" form:"start_date"`
	EndDate   string `json:"end_date" form:"end_date"`
	EventID   uint   `json:"event_id" form:"event_id"`
}

// FindConflicts returns every stored interval overlapping [start, end], sorted
// by start date then id. excludeEventID / excludeTrainingID drop the record
// currently being edited from its own source.
func (h *ConflictHandler) FindConflicts(start, end time.Time, excludeEventID, excludeTrainingID uint) ([]schedule.Interval, error) {
	events, err := h.eventRepository.FindOverlapping(start, end, excludeEventID)
	if err != nil {
		return nil, err
	}
	sessions, err := h.trainingRepository.FindOverlapping(start, end, excludeTrainingID)
	if err != nil {
		return nil, err
	}

	intervals := make([]schedule.Interval, 0, len(events)+len(sessions))
	for i := range events {
		intervals = append(intervals, events[i].Interval())
	}
	for i := range sessions {
		intervals = append(intervals, sessions[i].Interval())
	}
	schedule.SortByStart(intervals)
	return intervals, nil
}

// CheckConflicts handles the pre-persist conflict probe from the admin form
func (h *ConflictHandler) CheckConflicts(c echo.Context) error {
	var req ConflictCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	start, err := schedule.ParseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_date: "+err.Error())
	}
	end, err := schedule.ParseDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "end_date: "+err.Error())
	}
	if end.Before(start) {
		return echo.NewHTTPError(http.StatusBadRequest, "end_date must not be before start_date")
	}

	conflicts, err := h.FindConflicts(start, end, req.EventID, 0)
	if err != nil {
		// internal detail stays in the server log; the client gets an opaque failure
		log.Printf("conflict lookup failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check conflicts")
	}

	items := make([]schedule.FeedItem, 0, len(conflicts))
	for _, iv := range conflicts {
		items = append(items, iv.FeedItem())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"conflicts":      items,
		"has_conflicts":  len(items) > 0,
		"conflict_count": len(items),
	})
}
