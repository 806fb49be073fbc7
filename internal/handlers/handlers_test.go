package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/openrelief/portal/backend/internal/models"
	"github.com/openrelief/portal/backend/internal/repositories"
	"github.com/openrelief/portal/backend/internal/schedule"
	"github.com/openrelief/portal/backend/pkg/validators"
	"gorm.io/gorm"
)

// errStore stands in for an unreachable database in degradation tests.
var errStore = errors.New("storage unavailable")

// testDeps bundles a test database with the repositories handlers need.
type testDeps struct {
	db        *gorm.DB
	events    repositories.EventRepository
	trainings repositories.TrainingRepository
}

// setupTestDB builds an in-memory sqlite database with the portal schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.TrainingSession{},
		&models.EventRegistration{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

// newTestContext builds an Echo context for a request, optionally
// authenticated as the given user.
func newTestContext(t *testing.T, method, target string, body any, claims *models.JwtCustomClaims) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(jsonBytes)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	e := echo.New()
	e.Validator = validators.NewValidator()

	req := httptest.NewRequest(method, target, reqBody)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set("user", claims)
	}
	return c, rec
}

func memberClaims(userID uint) *models.JwtCustomClaims {
	return &models.JwtCustomClaims{UserID: userID, Email: "member@example.org", Role: models.RoleMember}
}

func adminClaims(userID uint) *models.JwtCustomClaims {
	return &models.JwtCustomClaims{UserID: userID, Email: "admin@example.org", Role: models.RoleAdmin}
}

// decodeBody unmarshals the recorded JSON response into a map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

// mustDate parses a YYYY-MM-DD test date.
func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := schedule.ParseDate(s)
	if err != nil {
		t.Fatalf("failed to parse test date %q: %v", s, err)
	}
	return d
}

// seedEvent inserts an event spanning [start, end].
func seedEvent(t *testing.T, db *gorm.DB, title, start, end string) *models.Event {
	t.Helper()
	event := &models.Event{
		Title:     title,
		Venue:     "Community Hall",
		StartDate: mustDate(t, start),
		EndDate:   mustDate(t, end),
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to seed event %q: %v", title, err)
	}
	return event
}

// seedTraining inserts a training session starting at start with the given duration.
func seedTraining(t *testing.T, db *gorm.DB, title, start string, durationDays int, archived bool) *models.TrainingSession {
	t.Helper()
	session := &models.TrainingSession{
		Title:        title,
		StartDate:    mustDate(t, start),
		DurationDays: durationDays,
		Archived:     archived,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to seed training %q: %v", title, err)
	}
	return session
}

// seedNotification inserts a ledger entry with an explicit creation time.
func seedNotification(t *testing.T, db *gorm.DB, userID uint, title string, createdAt time.Time) *models.Notification {
	t.Helper()
	notification := &models.Notification{
		UserID:    userID,
		Title:     title,
		Body:      "details for " + title,
		CreatedAt: createdAt,
	}
	if err := db.Create(notification).Error; err != nil {
		t.Fatalf("failed to seed notification %q: %v", title, err)
	}
	return notification
}
