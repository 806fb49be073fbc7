package models

import "time"

// Registration status lifecycle: pending on signup, then approved or rejected by an admin.
const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)

// EventRegistration links a member to an event they signed up for (PostgreSQL)
type EventRegistration struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event_id" gorm:"index:idx_registration_event_user,unique"`
	UserID    uint      `json:"user_id" gorm:"index:idx_registration_event_user,unique"`
	Status    string    `json:"status" gorm:"size:20;default:pending"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateRegistrationStatusRequest defines the admin request to approve or reject a registration
type UpdateRegistrationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}
