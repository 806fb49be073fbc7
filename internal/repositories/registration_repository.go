package repositories

import (
	"github.com/openrelief/portal/backend/internal/models"
	"gorm.io/gorm"
)

// RegistrationRepository defines the interface for event registration operations
type RegistrationRepository interface {
	CreateRegistration(registration *models.EventRegistration) error
	GetRegistrationByID(id uint) (*models.EventRegistration, error)
	GetRegistrationsByEventID(eventID uint) ([]models.EventRegistration, error)
	GetRegistrationsByUserID(userID uint) ([]models.EventRegistration, error)
	HasUserRegistered(eventID, userID uint) (bool, error)
	UpdateStatus(id uint, status string) error
	CountByEventID(eventID uint) (int64, error)
}

// PostgresRegistrationRepository implements RegistrationRepository for PostgreSQL
type PostgresRegistrationRepository struct {
	db *gorm.DB
}

// NewPostgresRegistrationRepository creates a new PostgresRegistrationRepository
func NewPostgresRegistrationRepository(db *gorm.DB) *PostgresRegistrationRepository {
	return &PostgresRegistrationRepository{db: db}
}

// CreateRegistration creates a new event registration in PostgreSQL
func (r *PostgresRegistrationRepository) CreateRegistration(registration *models.EventRegistration) error {
	return r.db.Create(registration).Error
}

// GetRegistrationByID retrieves a registration by ID from PostgreSQL
func (r *PostgresRegistrationRepository) GetRegistrationByID(id uint) (*models.EventRegistration, error) {
	var registration models.EventRegistration
	if err := r.db.First(&registration, id).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

// GetRegistrationsByEventID retrieves all registrations for an event
func (r *PostgresRegistrationRepository) GetRegistrationsByEventID(eventID uint) ([]models.EventRegistration, error) {
	registrations := []models.EventRegistration{}
	if err := r.db.Where("event_id = ?", eventID).Order("created_at ASC").Find(&registrations).Error; err != nil {
		return nil, err
	}
	return registrations, nil
}

// GetRegistrationsByUserID retrieves all registrations made by a user
func (r *PostgresRegistrationRepository) GetRegistrationsByUserID(userID uint) ([]models.EventRegistration, error) {
	registrations := []models.EventRegistration{}
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&registrations).Error; err != nil {
		return nil, err
	}
	return registrations, nil
}

// HasUserRegistered checks whether the user already registered for the event
func (r *PostgresRegistrationRepository) HasUserRegistered(eventID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.EventRegistration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

// UpdateStatus sets the registration status
func (r *PostgresRegistrationRepository) UpdateStatus(id uint, status string) error {
	res := r.db.Model(&models.EventRegistration{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByEventID returns the number of registrations for an event
func (r *PostgresRegistrationRepository) CountByEventID(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.EventRegistration{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}
