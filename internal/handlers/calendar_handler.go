package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openrelief/portal/backend/internal/repositories"
	"github.com/openrelief/portal/backend/internal/schedule"
)

// CalendarHandler merges events and training sessions into one chronological feed
type CalendarHandler struct {
	eventRepository    repositories.EventRepository
	trainingRepository repositories.TrainingRepository
	// now is swappable for tests
	now func() time.Time
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(eventRepo repositories.EventRepository, trainingRepo repositories.TrainingRepository) *CalendarHandler {
	return &CalendarHandler{
		eventRepository:    eventRepo,
		trainingRepository: trainingRepo,
		now:                time.Now,
	}
}

// RegisterCalendarRoutes registers calendar routes
func (h *CalendarHandler) RegisterCalendarRoutes(g *echo.Group) {
	g.GET("/calendar", h.GetCalendarFeed)
}

// GetCalendarFeed returns events and non-archived training sessions starting
// within one month back and six months ahead, in one time-ordered feed. The
// feed is best-effort: a failed source is logged and skipped, and the response
// is 200 with whatever remains, down to an empty list.
func (h *CalendarHandler) GetCalendarFeed(c echo.Context) error {
	from, to := schedule.Window(h.now())

	var eventIntervals, trainingIntervals []schedule.Interval

	events, err := h.eventRepository.GetEventsInWindow(from, to)
	if err != nil {
		log.Printf("calendar: event source failed: %v", err)
	} else {
		for i := range events {
			eventIntervals = append(eventIntervals, events[i].Interval())
		}
	}

	sessions, err := h.trainingRepository.GetTrainingsInWindow(from, to)
	if err != nil {
		log.Printf("calendar: training source failed: %v", err)
	} else {
		for i := range sessions {
			trainingIntervals = append(trainingIntervals, sessions[i].Interval())
		}
	}

	return c.JSON(http.StatusOK, schedule.MergeFeed(eventIntervals, trainingIntervals))
}
