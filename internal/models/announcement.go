package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement is an organization-wide bulletin stored in MongoDB. It is a
// broadcast feed, distinct from the per-user notification ledger.
type Announcement struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Body      string             `json:"body" bson:"body"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// CreateAnnouncementRequest defines the request body for posting a new announcement
type CreateAnnouncementRequest struct {
	Title string `json:"title" validate:"required,min=2,max=150"`
	Body  string `json:"body" validate:"required,min=1,max=5000"`
}
