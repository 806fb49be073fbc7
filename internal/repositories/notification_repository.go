package repositories

import (
	"errors"
	"time"

	"github.com/openrelief/portal/backend/internal/models"
	"gorm.io/gorm"
)

// DefaultNotificationPageSize caps a single poll response so burst traffic
// cannot inflate the payload.
const DefaultNotificationPageSize = 20

// NotificationRepository defines the interface for the per-user notification ledger
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetSince(userID uint, since time.Time, limit int) ([]models.Notification, error)
	MarkAsRead(userID, notificationID uint) (bool, error)
	MarkAllAsRead(userID uint) (int64, error)
	GetUnreadCount(userID uint) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// GetSince returns the user's entries created strictly after the watermark,
// newest first, capped at limit.
func (r *postgresNotificationRepository) GetSince(userID uint, since time.Time, limit int) ([]models.Notification, error) {
	if limit < 1 || limit > DefaultNotificationPageSize {
		limit = DefaultNotificationPageSize
	}
	notifications := []models.Notification{}
	err := r.db.Where("user_id = ? AND created_at > ?", userID, since).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkAsRead transitions one entry from unread to read with a single
// conditional update, so two concurrent calls cannot both count as the
// transition. Returns whether this call caused the transition; an entry that
// does not exist or belongs to another user is reported as not found.
func (r *postgresNotificationRepository) MarkAsRead(userID, notificationID uint) (bool, error) {
	now := time.Now()
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", now)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// No transition: distinguish "already read" from "not yours / absent".
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, gorm.ErrRecordNotFound
	}
	return false, nil
}

// MarkAllAsRead transitions every unread entry owned by the user and returns
// how many rows changed. Zero rows is not an error.
func (r *postgresNotificationRepository) MarkAllAsRead(userID uint) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now())
	return res.RowsAffected, res.Error
}

func (r *postgresNotificationRepository) GetUnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// IsNotFound reports whether the error marks a missing or foreign-owned record.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
