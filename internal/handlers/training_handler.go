package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openrelief/portal/backend/internal/models"
	"github.com/openrelief/portal/backend/internal/repositories"
	"github.com/openrelief/portal/backend/internal/schedule"
)

// TrainingHandler handles training session administration
type TrainingHandler struct {
	trainingRepository repositories.TrainingRepository
	conflictHandler    *ConflictHandler
}

// NewTrainingHandler creates a new TrainingHandler
func NewTrainingHandler(trainingRepo repositories.TrainingRepository, conflictHandler *ConflictHandler) *TrainingHandler {
	return &TrainingHandler{
		trainingRepository: trainingRepo,
		conflictHandler:    conflictHandler,
	}
}

// RegisterTrainingRoutes registers training routes on the member group and admin group
func (h *TrainingHandler) RegisterTrainingRoutes(g *echo.Group, admin *echo.Group) {
	g.GET("/trainings", h.GetTrainings)
	g.GET("/trainings/:id", h.GetTraining)

	admin.POST("/trainings", h.CreateTraining)
	admin.PUT("/trainings/:id", h.UpdateTraining)
	admin.DELETE("/trainings/:id", h.ArchiveTraining)
}

// GetTrainings lists non-archived training sessions, earliest first
func (h *TrainingHandler) GetTrainings(c echo.Context) error {
	sessions, err := h.trainingRepository.GetTrainings()
	if err != nil {
		log.Printf("training list failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load training sessions")
	}
	return c.JSON(http.StatusOK, sessions)
}

// GetTraining retrieves a single training session
func (h *TrainingHandler) GetTraining(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	session, err := h.trainingRepository.GetTrainingByID(id)
	if err != nil || session.Archived {
		return echo.NewHTTPError(http.StatusNotFound, "Training session not found")
	}
	return c.JSON(http.StatusOK, session)
}

// CreateTraining creates a session after checking the calendar for overlaps.
// The session's effective end day is derived from its duration.
func (h *TrainingHandler) CreateTraining(c echo.Context) error {
	var req models.CreateTrainingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	start, err := schedule.ParseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_date: "+err.Error())
	}
	end := schedule.EffectiveEnd(start, req.DurationDays)

	if conflicted, err := h.rejectIfConflicting(c, start, end, 0); err != nil || conflicted {
		return err
	}

	session := &models.TrainingSession{
		Title:        req.Title,
		Description:  req.Description,
		Trainer:      req.Trainer,
		StartDate:    start,
		DurationDays: req.DurationDays,
		CreatedBy:    getUserIDFromContext(c),
	}
	if err := h.trainingRepository.CreateTraining(session); err != nil {
		log.Printf("training create failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create training session")
	}
	return c.JSON(http.StatusCreated, session)
}

// UpdateTraining edits a session, excluding it from its own conflict probe
func (h *TrainingHandler) UpdateTraining(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	session, err := h.trainingRepository.GetTrainingByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Training session not found")
	}

	var req models.UpdateTrainingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Title != "" {
		session.Title = req.Title
	}
	if req.Description != "" {
		session.Description = req.Description
	}
	if req.Trainer != "" {
		session.Trainer = req.Trainer
	}
	if req.StartDate != "" {
		start, err := schedule.ParseDate(req.StartDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "start_date: "+err.Error())
		}
		session.StartDate = start
	}
	if req.DurationDays != 0 {
		session.DurationDays = req.DurationDays
	}

	end := schedule.EffectiveEnd(session.StartDate, session.DurationDays)
	if conflicted, err := h.rejectIfConflicting(c, session.StartDate, end, session.ID); err != nil || conflicted {
		return err
	}

	if err := h.trainingRepository.UpdateTraining(session); err != nil {
		log.Printf("training update failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update training session")
	}
	return c.JSON(http.StatusOK, session)
}

// ArchiveTraining soft-deletes a session; it drops out of listings, the
// calendar feed and future conflict checks but the row stays.
func (h *TrainingHandler) ArchiveTraining(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.trainingRepository.ArchiveTraining(id); err != nil {
		if repositories.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "Training session not found")
		}
		log.Printf("training archive failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to archive training session")
	}
	return c.NoContent(http.StatusNoContent)
}

// rejectIfConflicting runs the conflict probe, excluding the session being
// edited from the training source. On conflict it answers 409 and reports
// true so the caller stops before persisting.
func (h *TrainingHandler) rejectIfConflicting(c echo.Context, start, end time.Time, excludeTrainingID uint) (bool, error) {
	conflicts, err := h.conflictHandler.FindConflicts(start, end, 0, excludeTrainingID)
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
