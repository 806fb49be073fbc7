package handlers

import (
	"net/http"
	"testing"

	"github.com/openrelief/portal/backend/internal/models"
	"github.com/openrelief/portal/backend/internal/repositories"
	"gorm.io/gorm"
)

func newEventHandler(t *testing.T) (*EventHandler, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	eventRepo := repositories.NewPostgresEventRepository(db)
	trainingRepo := repositories.NewPostgresTrainingRepository(db)
	h := NewEventHandler(
		eventRepo,
		repositories.NewPostgresRegistrationRepository(db),
		repositories.NewPostgresNotificationRepository(db),
		repositories.NewPostgresUserRepository(db),
		NewConflictHandler(eventRepo, trainingRepo),
		nil,
	)
	return h, db
}

func TestCreateEvent_RejectsDoubleBooking(t *testing.T) {
	h, db := newEventHandler(t)
	seedEvent(t, db, "Existing Gala", "2024-06-12", "2024-06-15")

	c, rec := newTestContext(t, http.MethodPost, "/admin/events", map[string]any{
		"title":      "Overlapping Drive",
		"start_date": "2024-06-10",
		"end_date":   "2024-06-12",
	}, adminClaims(1))

	if err := h.CreateEvent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	body := decodeBody(t, rec)
	if len(body["conflicts"].([]any)) != 1 {
		t.Errorf("conflict list should name the blocking booking: %v", body)
	}

	var count int64
	db.Model(&models.Event{}).Count(&count)
	if count != 1 {
		t.Errorf("conflicting event must not be persisted, table has %d rows", count)
	}
}

func TestCreateEvent_PersistsWhenFree(t *testing.T) {
	h, db := newEventHandler(t)

	c, rec := newTestContext(t, http.MethodPost, "/admin/events", map[string]any{
		"title":      "Food Drive",
		"venue":      "Warehouse B",
		"start_date": "2024-06-10",
		"end_date":   "2024-06-11",
		"capacity":   40,
	}, adminClaims(3))

	if err := h.CreateEvent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var stored models.Event
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("event not persisted: %v", err)
	}
	if stored.Title != "Food Drive" || stored.CreatedBy != 3 {
		t.Errorf("stored event mismatch: %+v", stored)
	}
}

func TestUpdateEvent_ExcludesItselfFromConflictProbe(t *testing.T) {
	h, db := newEventHandler(t)
	event := seedEvent(t, db, "Gala", "2024-06-12", "2024-06-15")

	c, rec := newTestContext(t, http.MethodPut, "/admin/events/1", map[string]any{
		"title": "Gala (renamed)",
	}, adminClaims(1))
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.UpdateEvent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("editing an unchanged range must not self-conflict, status = %d: %s", rec.Code, rec.Body.String())
	}

	var stored models.Event
	db.First(&stored, event.ID)
	if stored.Title != "Gala (renamed)" {
		t.Errorf("title not updated: %+v", stored)
	}
}

func TestRegistrationStatusChange_EmitsNotification(t *testing.T) {
	h, db := newEventHandler(t)
	seedEvent(t, db, "Gala", "2024-06-12", "2024-06-15")

	member := &models.User{Name: "Sam", Email: "sam@example.org", Role: models.RoleMember}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	// member registers
	c, rec := newTestContext(t, http.MethodPost, "/events/1/register", nil, memberClaims(member.ID))
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.RegisterForEvent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var registration models.EventRegistration
	if err := db.First(&registration).Error; err != nil {
		t.Fatalf("registration not persisted: %v", err)
	}
	if registration.Status != models.RegistrationPending {
		t.Errorf("fresh registration status = %q, want pending", registration.Status)
	}

	// duplicate registration is rejected
	c, _ = newTestContext(t, http.MethodPost, "/events/1/register", nil, memberClaims(member.ID))
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.RegisterForEvent(c); err == nil {
		t.Error("duplicate registration should fail")
	}

	// admin approves; the registrant gets a ledger entry
	c, rec = newTestContext(t, http.MethodPut, "/admin/registrations/1/status",
		map[string]any{"status": "approved"}, adminClaims(1))
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.UpdateRegistrationStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status update = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var notifications []models.Notification
	if err := db.Where("user_id = ?", member.ID).Find(&notifications).Error; err != nil {
		t.Fatalf("failed to load notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notification count = %d, want 1", len(notifications))
	}
	if notifications[0].ReadAt != nil {
		t.Error("fresh notification must be unread")
	}
}

func TestRegisterForEvent_CapacityLimit(t *testing.T) {
	h, db := newEventHandler(t)
	event := seedEvent(t, db, "Small Workshop", "2024-06-12", "2024-06-12")
	db.Model(event).Update("capacity", 1)

	first := &models.EventRegistration{EventID: event.ID, UserID: 50, Status: models.RegistrationPending}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("failed to seed registration: %v", err)
	}

	c, _ := newTestContext(t, http.MethodPost, "/events/1/register", nil, memberClaims(51))
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.RegisterForEvent(c); err == nil {
		t.Error("registration beyond capacity should fail")
	}
}
