package models

import (
	"time"

	"github.com/openrelief/portal/backend/internal/schedule"
	"gorm.io/gorm"
)

// TrainingSession represents a training course, possibly spanning several days (PostgreSQL).
// EndDate is derived from StartDate and DurationDays; it is persisted only so the
// overlap query can run against a plain column.
type TrainingSession struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"size:150"`
	Description  string    `json:"description"`
	Trainer      string    `json:"trainer" gorm:"size:100"`
	StartDate    time.Time `json:"start_date" gorm:"type:date;index"`
	DurationDays int       `json:"duration_days"`
	EndDate      time.Time `json:"end_date" gorm:"type:date"`
	Archived     bool      `json:"archived" gorm:"default:false;index"`
	CreatedBy    uint      `json:"created_by" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeSave keeps the derived EndDate in sync with StartDate and DurationDays.
func (s *TrainingSession) BeforeSave(tx *gorm.DB) error {
	s.EndDate = schedule.EffectiveEnd(s.StartDate, s.DurationDays)
	return nil
}

// Interval returns the session as a date interval for conflict and calendar checks.
func (s *TrainingSession) Interval() schedule.Interval {
	return schedule.Interval{
		ID:    s.ID,
		Title: s.Title,
		Kind:  schedule.KindTraining,
		Start: s.StartDate,
		End:   schedule.EffectiveEnd(s.StartDate, s.DurationDays),
	}
}

// CreateTrainingRequest defines the request body for creating a training session
type CreateTrainingRequest struct {
	Title        string `json:"title" validate:"required,min=2,max=150"`
	Description  string `json:"description" validate:"omitempty,max=2000"`
	Trainer      string `json:"trainer" validate:"omitempty,max=100"`
	StartDate    string `json:"start_date" validate:"required"`
	DurationDays int    `json:"duration_days" validate:"omitempty,min=0,max=365"`
}

// UpdateTrainingRequest defines the request body for updating a training session
type UpdateTrainingRequest struct {
	Title        string `json:"title,omitempty" validate:"omitempty,min=2,max=150"`
	Description  string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Trainer      string `json:"trainer,omitempty" validate:"omitempty,max=100"`
	StartDate    string `json:"start_date,omitempty"`
	DurationDays int    `json:"duration_days,omitempty" validate:"omitempty,min=0,max=365"`
}
