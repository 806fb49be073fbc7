package models

import (
	"time"

	"github.com/openrelief/portal/backend/internal/schedule"
)

// Event represents an organization event occupying a venue for a date range (PostgreSQL)
type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:150"`
	Description string    `json:"description"`
	Venue       string    `json:"venue" gorm:"size:150"`
	StartDate   time.Time `json:"start_date" gorm:"type:date;index"`
	EndDate     time.Time `json:"end_date" gorm:"type:date"`
	Capacity    int       `json:"capacity"`
	CreatedBy   uint      `json:"created_by" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Interval returns the event as a date interval for conflict and calendar checks.
func (e *Event) Interval() schedule.Interval {
	return schedule.Interval{
		ID:    e.ID,
		Title: e.Title,
		Kind:  schedule.KindEvent,
		Start: e.StartDate,
		End:   e.EndDate,
	}
}

// CreateEventRequest defines the request body for creating a new event
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=150"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Venue       string `json:"venue" validate:"omitempty,max=150"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Capacity    int    `json:"capacity" validate:"omitempty,min=0"`
}

// UpdateEventRequest defines the request body for updating an existing event
type UpdateEventRequest struct {
	Title       string `json:"title,omitempty" validate:"omitempty,min=2,max=150"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Venue       string `json:"venue,omitempty" validate:"omitempty,max=150"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Capacity    int    `json:"capacity,omitempty" validate:"omitempty,min=0"`
}
