package models

import "time"

// Notification is one entry of a user's append-only notification ledger (PostgreSQL).
// ReadAt stays null until the owner marks the entry read; it is never cleared.
type Notification struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"user_id" gorm:"index"`
	Title     string     `json:"title" gorm:"size:150"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"read_at" gorm:"index"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
}

// IsRead reports whether the entry has been marked read.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
