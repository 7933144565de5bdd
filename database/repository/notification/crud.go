package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/ConteMartin/PASTO/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a notification record and returns its ID.
func (r *mongoNotificationRepo) Create(ctx context.Context, n *models.Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return "", fmt.Errorf("failed to insert notification: %w", err)
	}
	return n.ID, nil
}

// GetByUser fetches a user's notifications, newest first.
func (r *mongoNotificationRepo) GetByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead sets the read flag to true. The flag is write-once: already-read
// notifications simply no longer match.
func (r *mongoNotificationRepo) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	filter := bson.M{"id": id, "user_id": userID, "read": false}
	update := bson.M{"$set": bson.M{"read": true}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return res.MatchedCount == 1, nil
}

// EnsureIndexes creates the notification listing index.
func (r *mongoNotificationRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}
	return nil
}
