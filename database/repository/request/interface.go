package requestRepo

import (
	"context"
	"time"

	"github.com/ConteMartin/PASTO/database"
	"github.com/ConteMartin/PASTO/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// RequestRepository is the durable record of every service request. Reads
// return point-in-time snapshots; every mutation carries its precondition in
// the update filter so partial state is never observable.
type RequestRepository interface {
	Create(ctx context.Context, req *models.ServiceRequest) error
	GetByID(ctx context.Context, id string) (*models.ServiceRequest, error)
	GetByClient(ctx context.Context, clientID string) ([]models.ServiceRequest, error)
	GetByGardener(ctx context.Context, gardenerID string) ([]models.ServiceRequest, error)
	// GetAvailable returns pending requests ordered by creation time
	// ascending, so the oldest job surfaces first.
	GetAvailable(ctx context.Context) ([]models.ServiceRequest, error)

	// AcceptPending atomically assigns a gardener to a request that is still
	// pending and unassigned. It reports whether the check-and-set matched;
	// a false return with a nil error means the request was not in an
	// acceptable state (already taken, cancelled, or missing).
	AcceptPending(ctx context.Context, id, gardenerID string, at time.Time) (bool, error)

	// UpdateStatus applies a guarded status change: the update only matches
	// while the document still has status `from` and the acting party bound
	// to `actorField` ("client_id" or "gardener_id").
	UpdateStatus(ctx context.Context, id, from, to, actorField, actorID string, at time.Time) (bool, error)

	// SetRating writes one side's rating, guarded on completed status and
	// the rating slot still being empty.
	SetRating(ctx context.Context, id, side string, rating models.Rating) (bool, error)

	EnsureIndexes() error
}

type mongoRequestRepo struct {
	coll *mongo.Collection
}

// NewMongoRequestRepo returns a RequestRepository backed by MongoDB.
func NewMongoRequestRepo() RequestRepository {
	return &mongoRequestRepo{
		coll: database.DB().Collection("service_requests"),
	}
}
