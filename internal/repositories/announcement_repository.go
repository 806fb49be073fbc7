package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/openrelief/portal/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AnnouncementRepository defines the interface for announcement feed operations
type AnnouncementRepository interface {
	CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error
	GetAnnouncementByID(ctx context.Context, id string) (*models.Announcement, error)
	GetAnnouncements(ctx context.Context, skip, limit int64) ([]models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error
}

// MongoAnnouncementRepository implements AnnouncementRepository for MongoDB
type MongoAnnouncementRepository struct {
	collection *mongo.Collection
}

// NewMongoAnnouncementRepository creates a new MongoAnnouncementRepository
func NewMongoAnnouncementRepository(db *mongo.Database) *MongoAnnouncementRepository {
	return &MongoAnnouncementRepository{collection: db.Collection("announcements")}
}

// CreateAnnouncement creates a new announcement in MongoDB
func (r *MongoAnnouncementRepository) CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	announcement.ID = primitive.NewObjectID()
	announcement.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, announcement)
	return err
}

// GetAnnouncementByID retrieves an announcement by ID from MongoDB
func (r *MongoAnnouncementRepository) GetAnnouncementByID(ctx context.Context, id string) (*models.Announcement, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid announcement ID format: %w", err)
	}

	var announcement models.Announcement
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&announcement)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("announcement not found")
		}
		return nil, err
	}
	return &announcement, nil
}

// GetAnnouncements retrieves announcements from MongoDB, newest first
func (r *MongoAnnouncementRepository) GetAnnouncements(ctx context.Context, skip, limit int64) ([]models.Announcement, error) {
	announcements := []models.Announcement{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// DeleteAnnouncement deletes an announcement by ID from MongoDB
func (r *MongoAnnouncementRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid announcement ID format: %w", err)
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("announcement not found")
	}
	return nil
}
