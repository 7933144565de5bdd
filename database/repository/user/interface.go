package userRepo

import (
	"context"

	"github.com/ConteMartin/PASTO/database"
	"github.com/ConteMartin/PASTO/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository is the user directory: account storage plus aggregate
// reputation updates.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetManyByIDs resolves a batch of user ids to documents, keyed by id.
	GetManyByIDs(ctx context.Context, ids []string) (map[string]models.User, error)

	// ApplyRating folds a new 1-5 score into the user's aggregate using an
	// incremental mean, atomically in a single update.
	ApplyRating(ctx context.Context, userID string, score int) error
	// IncrementCompletedJobs bumps a gardener's completed job counter.
	IncrementCompletedJobs(ctx context.Context, gardenerID string) error

	EnsureIndexes() error
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo returns a UserRepository backed by MongoDB.
func NewMongoUserRepo() UserRepository {
	return &mongoUserRepo{
		coll: database.DB().Collection("users"),
	}
}
