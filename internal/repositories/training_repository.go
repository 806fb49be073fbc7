package repositories

import (
	"time"

	"github.com/openrelief/portal/backend/internal/models"
	"gorm.io/gorm"
)

// TrainingRepository defines the interface for training session data operations
type TrainingRepository interface {
	CreateTraining(session *models.TrainingSession) error
	GetTrainingByID(id uint) (*models.TrainingSession, error)
	GetTrainings() ([]models.TrainingSession, error)
	GetTrainingsInWindow(from, to time.Time) ([]models.TrainingSession, error)
	FindOverlapping(start, end time.Time, excludeID uint) ([]models.TrainingSession, error)
	UpdateTraining(session *models.TrainingSession) error
	ArchiveTraining(id uint) error
}

// PostgresTrainingRepository implements TrainingRepository for PostgreSQL
type PostgresTrainingRepository struct {
	db *gorm.DB
}

// NewPostgresTrainingRepository creates a new PostgresTrainingRepository
func NewPostgresTrainingRepository(db *gorm.DB) *PostgresTrainingRepository {
	return &PostgresTrainingRepository{db: db}
}

// CreateTraining creates a new training session in PostgreSQL
func (r *PostgresTrainingRepository) CreateTraining(session *models.TrainingSession) error {
	return r.db.Create(session).Error
}

// GetTrainingByID retrieves a training session by ID, archived or not
func (r *PostgresTrainingRepository) GetTrainingByID(id uint) (*models.TrainingSession, error) {
	var session models.TrainingSession
	if err := r.db.First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetTrainings retrieves all non-archived training sessions ordered by start date
func (r *PostgresTrainingRepository) GetTrainings() ([]models.TrainingSession, error) {
	sessions := []models.TrainingSession{}
	err := r.db.Where("archived = ?", false).
		Order("start_date ASC, id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetTrainingsInWindow retrieves non-archived sessions starting within [from, to], inclusive
func (r *PostgresTrainingRepository) GetTrainingsInWindow(from, to time.Time) ([]models.TrainingSession, error) {
	sessions := []models.TrainingSession{}
	err := r.db.Where("archived = ? AND start_date >= ? AND start_date <= ?", false, from, to).
		Order("start_date ASC, id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// FindOverlapping returns non-archived sessions whose closed date range
// intersects [start, end]. The derived end_date column keeps multi-day
// sessions in the comparison. excludeID removes the record being edited.
func (r *PostgresTrainingRepository) FindOverlapping(start, end time.Time, excludeID uint) ([]models.TrainingSession, error) {
	sessions := []models.TrainingSession{}
	q := r.db.Where("archived = ? AND start_date <= ? AND end_date >= ?", false, end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("start_date ASC, id ASC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateTraining updates an existing training session in PostgreSQL
func (r *PostgresTrainingRepository) UpdateTraining(session *models.TrainingSession) error {
	return r.db.Save(session).Error
}

// ArchiveTraining soft-deletes a training session by setting its archived flag
func (r *PostgresTrainingRepository) ArchiveTraining(id uint) error {
	res := r.db.Model(&models.TrainingSession{}).Where("id = ?", id).Update("archived", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
