package repositories

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/openrelief/portal/backend/internal/models"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Event{},
		&models.TrainingSession{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func seedEntry(t *testing.T, db *gorm.DB, userID uint, title string, createdAt time.Time) *models.Notification {
	t.Helper()
	n := &models.Notification{UserID: userID, Title: title, Body: "b", CreatedAt: createdAt}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to seed notification: %v", err)
	}
	return n
}

func TestMarkAsRead_SingleTransition(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	entry := seedEntry(t, db, 1, "status change", time.Now())

	transitioned, err := repo.MarkAsRead(1, entry.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !transitioned {
		t.Error("first MarkAsRead must report the transition")
	}

	// the conditional update makes a repeat call a no-op, never a second transition
	transitioned, err = repo.MarkAsRead(1, entry.ID)
	if err != nil {
		t.Fatalf("unexpected error on repeat: %v", err)
	}
	if transitioned {
		t.Error("repeat MarkAsRead must not report a transition")
	}

	var stored models.Notification
	if err := db.First(&stored, entry.ID).Error; err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if stored.ReadAt == nil {
		t.Error("entry must be read after either call")
	}
}

func TestMarkAsRead_OwnershipIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	entry := seedEntry(t, db, 1, "mine", time.Now())

	if _, err := repo.MarkAsRead(2, entry.ID); !IsNotFound(err) {
		t.Errorf("foreign owner should look like not-found, got %v", err)
	}
	if _, err := repo.MarkAsRead(1, entry.ID+100); !IsNotFound(err) {
		t.Errorf("absent id should be not-found, got %v", err)
	}
}

func TestMarkAllAsRead_CountsAndNoOp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	seedEntry(t, db, 1, "a", time.Now())
	seedEntry(t, db, 1, "b", time.Now())
	seedEntry(t, db, 2, "c", time.Now())

	affected, err := repo.MarkAllAsRead(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if affected != 2 {
		t.Errorf("affected = %d, want 2", affected)
	}

	affected, err = repo.MarkAllAsRead(1)
	if err != nil {
		t.Fatalf("no unread entries must not be an error: %v", err)
	}
	if affected != 0 {
		t.Errorf("repeat affected = %d, want 0", affected)
	}

	count, err := repo.GetUnreadCount(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("other user's unread count = %d, want 1", count)
	}
}

func TestGetSince_OrderAndCap(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 30; i++ {
		seedEntry(t, db, 1, "entry", base.Add(time.Duration(i)*time.Minute))
	}

	entries, err := repo.GetSince(1, base, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != DefaultNotificationPageSize {
		t.Fatalf("page length = %d, want %d", len(entries), DefaultNotificationPageSize)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].CreatedAt.After(entries[i-1].CreatedAt) {
			t.Fatal("entries must be newest first")
		}
	}

	// strictly-after semantics: the watermark entry itself is excluded
	last := entries[0]
	delta, err := repo.GetSince(1, last.CreatedAt, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(delta) != 0 {
		t.Errorf("delta after newest entry = %d entries, want 0", len(delta))
	}
}
