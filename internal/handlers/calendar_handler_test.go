package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/openrelief/portal/backend/internal/models"
	"github.com/openrelief/portal/backend/internal/repositories"
	"github.com/openrelief/portal/backend/internal/schedule"
)

func newCalendarHandler(t *testing.T, now string) (*CalendarHandler, *testDeps) {
	t.Helper()
	db := setupTestDB(t)
	deps := &testDeps{
		db:        db,
		events:    repositories.NewPostgresEventRepository(db),
		trainings: repositories.NewPostgresTrainingRepository(db),
	}
	h := NewCalendarHandler(deps.events, deps.trainings)
	fixed := mustDate(t, now)
	h.now = func() time.Time { return fixed }
	return h, deps
}

func getFeed(t *testing.T, h *CalendarHandler) []schedule.FeedItem {
	t.Helper()
	c, rec := newTestContext(t, http.MethodGet, "/calendar", nil, memberClaims(1))
	if err := h.GetCalendarFeed(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var feed []schedule.FeedItem
	if err := json.Unmarshal(rec.Body.Bytes(), &feed); err != nil {
		t.Fatalf("failed to decode feed %q: %v", rec.Body.String(), err)
	}
	return feed
}

func TestGetCalendarFeed_WindowAndOrdering(t *testing.T) {
	h, deps := newCalendarHandler(t, "2024-06-15")

	// inside the window
	seedEvent(t, deps.db, "Summer Gala", "2024-07-01", "2024-07-02")
	seedTraining(t, deps.db, "First Aid Course", "2024-05-20", 3, false)
	// outside: more than a month back, more than six months ahead
	seedEvent(t, deps.db, "Spring Drive", "2024-04-01", "2024-04-02")
	seedEvent(t, deps.db, "Next Year Kickoff", "2025-01-10", "2025-01-10")
	// archived sessions never appear
	seedTraining(t, deps.db, "Retired Course", "2024-07-01", 2, true)

	feed := getFeed(t, h)
	if len(feed) != 2 {
		t.Fatalf("feed length = %d, want 2", len(feed))
	}
	if feed[0].Title != "First Aid Course" || feed[1].Title != "Summer Gala" {
		t.Errorf("feed not in chronological order: %v, %v", feed[0].Title, feed[1].Title)
	}
	if feed[0].Kind != schedule.KindTraining || feed[0].EndDate != "2024-05-22" {
		t.Errorf("training item should expose kind and computed end date: %+v", feed[0])
	}
}

func TestGetCalendarFeed_WindowBoundariesInclusive(t *testing.T) {
	h, deps := newCalendarHandler(t, "2024-06-15")

	seedEvent(t, deps.db, "Lower Edge", "2024-05-15", "2024-05-15")
	seedEvent(t, deps.db, "Upper Edge", "2024-12-15", "2024-12-15")
	seedEvent(t, deps.db, "Too Old", "2024-05-14", "2024-05-14")
	seedEvent(t, deps.db, "Too Far", "2024-12-16", "2024-12-16")

	feed := getFeed(t, h)
	if len(feed) != 2 {
		t.Fatalf("feed length = %d, want 2 (inclusive boundaries)", len(feed))
	}
	if feed[0].Title != "Lower Edge" || feed[1].Title != "Upper Edge" {
		t.Errorf("unexpected feed contents: %+v", feed)
	}
}

func TestGetCalendarFeed_ZeroDurationTrainingIsSingleDay(t *testing.T) {
	h, deps := newCalendarHandler(t, "2024-06-15")
	seedTraining(t, deps.db, "Orientation", "2024-06-20", 0, false)

	feed := getFeed(t, h)
	if len(feed) != 1 {
		t.Fatalf("feed length = %d, want 1", len(feed))
	}
	if feed[0].StartDate != "2024-06-20" || feed[0].EndDate != "2024-06-20" {
		t.Errorf("zero-duration session should collapse to a single day: %+v", feed[0])
	}
}

func TestGetCalendarFeed_DegradesWhenOneSourceFails(t *testing.T) {
	h, deps := newCalendarHandler(t, "2024-06-15")
	seedEvent(t, deps.db, "Summer Gala", "2024-07-01", "2024-07-02")
	h.trainingRepository = failingTrainingRepo{}

	feed := getFeed(t, h)
	if len(feed) != 1 || feed[0].Title != "Summer Gala" {
		t.Errorf("surviving source should still be served, got %+v", feed)
	}
}

func TestGetCalendarFeed_EmptyListWhenBothSourcesFail(t *testing.T) {
	h, _ := newCalendarHandler(t, "2024-06-15")
	h.eventRepository = failingEventRepo{}
	h.trainingRepository = failingTrainingRepo{}

	c, rec := newTestContext(t, http.MethodGet, "/calendar", nil, memberClaims(1))
	if err := h.GetCalendarFeed(c); err != nil {
		t.Fatalf("feed must never hard-fail, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 even on total failure", rec.Code)
	}
	if rec.Body.String() != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", rec.Body.String())
	}
}

type failingEventRepo struct{}

func (failingEventRepo) CreateEvent(*models.Event) error                  { return errStore }
func (failingEventRepo) GetEventByID(uint) (*models.Event, error)         { return nil, errStore }
func (failingEventRepo) GetEvents() ([]models.Event, error)               { return nil, errStore }
func (failingEventRepo) UpdateEvent(*models.Event) error                  { return errStore }
func (failingEventRepo) DeleteEvent(uint) error                           { return errStore }
func (failingEventRepo) GetEventsInWindow(_, _ time.Time) ([]models.Event, error) {
	return nil, errStore
}
func (failingEventRepo) FindOverlapping(_, _ time.Time, _ uint) ([]models.Event, error) {
	return nil, errStore
}

type failingTrainingRepo struct{}

func (failingTrainingRepo) CreateTraining(*models.TrainingSession) error { return errStore }
func (failingTrainingRepo) GetTrainingByID(uint) (*models.TrainingSession, error) {
	return nil, errStore
}
func (failingTrainingRepo) GetTrainings() ([]models.TrainingSession, error) { return nil, errStore }
func (failingTrainingRepo) UpdateTraining(*models.TrainingSession) error    { return errStore }
func (failingTrainingRepo) ArchiveTraining(uint) error                      { return errStore }
func (failingTrainingRepo) GetTrainingsInWindow(_, _ time.Time) ([]models.TrainingSession, error) {
	return nil, errStore
}
func (failingTrainingRepo) FindOverlapping(_, _ time.Time, _ uint) ([]models.TrainingSession, error) {
	return nil, errStore
}
