package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/openrelief/portal/backend/internal/models"
	"github.com/openrelief/portal/backend/internal/repositories"
)

// AnnouncementHandler serves the organization-wide announcement feed.
// Announcements are broadcast content, deliberately separate from the
// per-user notification ledger.
type AnnouncementHandler struct {
	announcementRepository repositories.AnnouncementRepository
}

// NewAnnouncementHandler creates a new AnnouncementHandler
func NewAnnouncementHandler(announcementRepo repositories.AnnouncementRepository) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementRepository: announcementRepo,
	}
}

// RegisterAnnouncementRoutes registers announcement routes on the member group and admin group
func (h *AnnouncementHandler) RegisterAnnouncementRoutes(g *echo.Group, admin *echo.Group) {
	g.GET("/announcements", h.GetAnnouncements)
	g.GET("/announcements/:id", h.GetAnnouncement)

	admin.POST("/announcements", h.CreateAnnouncement)
	admin.DELETE("/announcements/:id", h.DeleteAnnouncement)
}

// GetAnnouncements lists announcements, newest first
func (h *AnnouncementHandler) GetAnnouncements(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 50 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	announcements, err := h.announcementRepository.GetAnnouncements(c.Request().Context(), skip, limit)
	if err != nil {
		// bulletin board is best-effort; render empty instead of failing the page
		log.Printf("announcement list failed: %v", err)
		announcements = []models.Announcement{}
	}
	return c.JSON(http.StatusOK, announcements)
}

// GetAnnouncement retrieves a single announcement
func (h *AnnouncementHandler) GetAnnouncement(c echo.Context) error {
	announcement, err := h.announcementRepository.GetAnnouncementByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Announcement not found")
	}
	return c.JSON(http.StatusOK, announcement)
}

// CreateAnnouncement posts a new announcement (admin)
func (h *AnnouncementHandler) CreateAnnouncement(c echo.Context) error {
	var req models.CreateAnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	announcement := &models.Announcement{
		Title:    req.Title,
		Body:     req.Body,
		AuthorID: getUserIDFromContext(c),
	}
	if err := h.announcementRepository.CreateAnnouncement(c.Request().Context(), announcement); err != nil {
		log.Printf("announcement create failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create announcement")
	}
	return c.JSON(http.StatusCreated, announcement)
}

// DeleteAnnouncement removes an announcement (admin)
func (h *AnnouncementHandler) DeleteAnnouncement(c echo.Context) error {
	if err := h.announcementRepository.DeleteAnnouncement(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Announcement not found")
	}
	return c.NoContent(http.StatusNoContent)
}
