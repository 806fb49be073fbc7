package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openrelief/portal/backend/internal/models"
	"github.com/openrelief/portal/backend/internal/repositories"
	"github.com/openrelief/portal/backend/internal/schedule"
)

// EventHandler handles event CRUD and member registrations
type EventHandler struct {
	eventRepository        repositories.EventRepository
	registrationRepository repositories.RegistrationRepository
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
	conflictHandler        *ConflictHandler
	pusher                 Pusher
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(
	eventRepo repositories.EventRepository,
	registrationRepo repositories.RegistrationRepository,
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	conflictHandler *ConflictHandler,
	pusher Pusher,
) *EventHandler {
	return &EventHandler{
		eventRepository:        eventRepo,
		registrationRepository: registrationRepo,
		notificationRepository: notifRepo,
		userRepository:         userRepo,
		conflictHandler:        conflictHandler,
		pusher:                 pusher,
	}
}

// RegisterEventRoutes registers event routes on the member group and admin group
func (h *EventHandler) RegisterEventRoutes(g *echo.Group, admin *echo.Group) {
	g.GET("/events", h.GetEvents)
	g.GET("/events/:id", h.GetEvent)
	g.POST("/events/:id/register", h.RegisterForEvent)
	g.GET("/registrations", h.GetMyRegistrations)

	admin.POST("/events", h.CreateEvent)
	admin.PUT("/events/:id", h.UpdateEvent)
	admin.DELETE("/events/:id", h.DeleteEvent)
	admin.GET("/events/:id/registrations", h.GetEventRegistrations)
	admin.PUT("/registrations/:id/status", h.UpdateRegistrationStatus)
}

// GetEvents lists all events, earliest first
func (h *EventHandler) GetEvents(c echo.Context) error {
	events, err := h.eventRepository.GetEvents()
	if err != nil {
		log.Printf("event list failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load events")
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent retrieves a single event
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	event, err := h.eventRepository.GetEventByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}
	return c.JSON(http.StatusOK, event)
}

// CreateEvent creates an event after checking the venue calendar for overlaps
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req models.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}

	if conflicted, err := h.rejectIfConflicting(c, start, end, 0); err != nil || conflicted {
		return err
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		StartDate:   start,
		EndDate:     end,
		Capacity:    req.Capacity,
		CreatedBy:   getUserIDFromContext(c),
	}
	if err := h.eventRepository.CreateEvent(event); err != nil {
		log.Printf("event create failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create event")
	}

	return c.JSON(http.StatusCreated, event)
}

// UpdateEvent edits an event; the record itself is excluded from the conflict
// probe so an unchanged date range does not flag itself.
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	event, err := h.eventRepository.GetEventByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}

	var req models.UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.Venue != "" {
		event.Venue = req.Venue
	}
	if req.Capacity != 0 {
		event.Capacity = req.Capacity
	}
	if req.StartDate != "" {
		start, err := schedule.ParseDate(req.StartDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "start_date: "+err.Error())
		}
		event.StartDate = start
	}
	if req.EndDate != "" {
		end, err := schedule.ParseDate(req.EndDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "end_date: "+err.Error())
		}
		event.EndDate = end
	}
	if event.EndDate.Before(event.StartDate) {
		return echo.NewHTTPError(http.StatusBadRequest, "end_date must not be before start_date")
	}

	if conflicted, err := h.rejectIfConflicting(c, event.StartDate, event.EndDate, event.ID); err != nil || conflicted {
		return err
	}

	if err := h.eventRepository.UpdateEvent(event); err != nil {
		log.Printf("event update failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update event")
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if _, err := h.eventRepository.GetEventByID(id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}
	if err := h.eventRepository.DeleteEvent(id); err != nil {
		log.Printf("event delete failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete event")
	}
	return c.NoContent(http.StatusNoContent)
}

// RegisterForEvent signs the current member up for an event with pending status
func (h *EventHandler) RegisterForEvent(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	eventID, err := parseIDParam(c)
	if err != nil {
		return err
	}
	event, err := h.eventRepository.GetEventByID(eventID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}

	alreadyRegistered, err := h.registrationRepository.HasUserRegistered(eventID, currentUserID)
	if err != nil {
		log.Printf("registration lookup failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to register")
	}
	if alreadyRegistered {
		return echo.NewHTTPError(http.StatusConflict, "Already registered for this event")
	}

	if event.Capacity > 0 {
		count, err := h.registrationRepository.CountByEventID(eventID)
		if err != nil {
			log.Printf("registration count failed: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to register")
		}
		if count >= int64(event.Capacity) {
			return echo.NewHTTPError(http.StatusConflict, "Event is full")
		}
	}

	registration := &models.EventRegistration{
		EventID: eventID,
		UserID:  currentUserID,
		Status:  models.RegistrationPending,
	}
	if err := h.registrationRepository.CreateRegistration(registration); err != nil {
		log.Printf("registration create failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to register")
	}

	return c.JSON(http.StatusCreated, registration)
}

// GetMyRegistrations lists the current member's registrations
func (h *EventHandler) GetMyRegistrations(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	registrations, err := h.registrationRepository.GetRegistrationsByUserID(currentUserID)
	if err != nil {
		log.Printf("registration list failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load registrations")
	}
	return c.JSON(http.StatusOK, registrations)
}

// GetEventRegistrations lists registrations for one event (admin)
func (h *EventHandler) GetEventRegistrations(c echo.Context) error {
	eventID, err := parseIDParam(c)
	if err != nil {
		return err
	}
	registrations, err := h.registrationRepository.GetRegistrationsByEventID(eventID)
	if err != nil {
		log.Printf("registration list failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load registrations")
	}
	return c.JSON(http.StatusOK, registrations)
}

// UpdateRegistrationStatus approves or rejects a registration and notifies the
// registrant through the ledger plus a best-effort push.
func (h *EventHandler) UpdateRegistrationStatus(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	registration, err := h.registrationRepository.GetRegistrationByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Registration not found")
	}

	var req models.UpdateRegistrationStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.registrationRepository.UpdateStatus(id, req.Status); err != nil {
		log.Printf("registration status update failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update registration")
	}

	event, err := h.eventRepository.GetEventByID(registration.EventID)
	eventTitle := "an event"
	if err == nil {
		eventTitle = event.Title
	}
	h.notifyRegistrant(registration.UserID, eventTitle, req.Status)

	registration.Status = req.Status
	return c.JSON(http.StatusOK, registration)
}

// notifyRegistrant appends a ledger entry for the status change and pushes it
// to the member's device when push is configured. Push failures only log.
func (h *EventHandler) notifyRegistrant(userID uint, eventTitle, status string) {
	title := "Registration update"
	body := fmt.Sprintf("Your registration for %q is now %s.", eventTitle, status)

	notification := &models.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
	}
	if err := h.notificationRepository.CreateNotification(notification); err != nil {
		log.Printf("notification create failed for user %d: %v", userID, err)
		return
	}

	if h.pusher == nil {
		return
	}
	user, err := h.userRepository.GetUserByID(userID)
	if err != nil || user.DeviceToken == "" {
		return
	}
	go func(token string) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.pusher.Push(ctx, token, title, body); err != nil {
			log.Printf("push delivery failed for user %d: %v", userID, err)
		}
	}(user.DeviceToken)
}

// rejectIfConflicting runs the conflict probe; when the range is double-booked
// it answers 409 with the conflicting intervals and reports true so the
// caller stops before persisting.
func (h *EventHandler) rejectIfConflicting(c echo.Context, start, end time.Time, excludeEventID uint) (bool, error) {
	conflicts, err := h.conflictHandler.FindConflicts(start, end, excludeEventID, 0)
	if err != nil {
		log.Printf("conflict probe failed: %v", err)
		return false, echo.NewHTTPError(http.StatusInternalServerError, "Failed to check conflicts")
	}
	if len(conflicts) == 0 {
		return false, nil
	}
	items := make([]schedule.FeedItem, 0, len(conflicts))
	for _, iv := range conflicts {
		items = append(items, iv.FeedItem())
	}
	return true, c.JSON(http.StatusConflict, echo.Map{
		"error":     "Date range conflicts with existing bookings",
		"conflicts": items,
	})
}

// parseRange parses and validates a start/end date pair
func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := schedule.ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "start_date: "+err.Error())
	}
	end, err := schedule.ParseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "end_date: "+err.Error())
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "end_date must not be before start_date")
	}
	return start, end, nil
}

// parseIDParam parses the :id route parameter
func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	return uint(id), nil
}
