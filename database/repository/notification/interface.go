package notificationRepo

import (
	"context"

	"github.com/ConteMartin/PASTO/database"
	"github.com/ConteMartin/PASTO/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationRepository stores the notification records the dispatcher
// emits on lifecycle transitions.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (string, error)
	GetByUser(ctx context.Context, userID string) ([]models.Notification, error)
	// MarkRead flips the read flag to true, once; it reports whether a
	// matching unread notification existed.
	MarkRead(ctx context.Context, id, userID string) (bool, error)

	EnsureIndexes() error
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo returns a NotificationRepository backed by MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	return &mongoNotificationRepo{
		coll: database.DB().Collection("notifications"),
	}
}
