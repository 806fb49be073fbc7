package repositories

import (
	"time"

	"github.com/openrelief/portal/backend/internal/models"
	"gorm.io/gorm"
)

// EventRepository defines the interface for event data operations
type EventRepository interface {
	CreateEvent(event *models.Event) error
	GetEventByID(id uint) (*models.Event, error)
	GetEvents() ([]models.Event, error)
	GetEventsInWindow(from, to time.Time) ([]models.Event, error)
	FindOverlapping(start, end time.Time, excludeID uint) ([]models.Event, error)
	UpdateEvent(event *models.Event) error
	DeleteEvent(id uint) error
}

// PostgresEventRepository implements EventRepository for PostgreSQL
type PostgresEventRepository struct {
	db *gorm.DB
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// CreateEvent creates a new event in PostgreSQL
func (r *PostgresEventRepository) CreateEvent(event *models.Event) error {
	return r.db.Create(event).Error
}

// GetEventByID retrieves an event by ID from PostgreSQL
func (r *PostgresEventRepository) GetEventByID(id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEvents retrieves all events ordered by start date
func (r *PostgresEventRepository) GetEvents() ([]models.Event, error) {
	events := []models.Event{}
	if err := r.db.Order("start_date ASC, id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// GetEventsInWindow retrieves events starting within [from, to], inclusive
func (r *PostgresEventRepository) GetEventsInWindow(from, to time.Time) ([]models.Event, error) {
	events := []models.Event{}
	err := r.db.Where("start_date >= ? AND start_date <= ?", from, to).
		Order("start_date ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// FindOverlapping returns events whose closed date range intersects [start, end].
// Boundaries are inclusive: an event ending on the candidate's start day is a
// conflict. excludeID removes the record being edited from the candidate set.
func (r *PostgresEventRepository) FindOverlapping(start, end time.Time, excludeID uint) ([]models.Event, error) {
	events := []models.Event{}
	q := r.db.Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("start_date ASC, id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateEvent updates an existing event in PostgreSQL
func (r *PostgresEventRepository) UpdateEvent(event *models.Event) error {
	return r.db.Save(event).Error
}

// DeleteEvent deletes an event by ID from PostgreSQL
func (r *PostgresEventRepository) DeleteEvent(id uint) error {
	return r.db.Delete(&models.Event{}, id).Error
}
