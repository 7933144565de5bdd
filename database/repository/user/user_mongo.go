package userRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/ConteMartin/PASTO/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new user document.
func (r *mongoUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByID returns a user by its ID.
func (r *mongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns a user by email.
func (r *mongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetManyByIDs resolves a batch of user ids in one round trip.
func (r *mongoUserRepo) GetManyByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	users := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, err
		}
		users[u.ID] = u
	}
	return users, cursor.Err()
}

// ApplyRating updates the ratee's aggregate with an incremental mean:
// new_avg = (old_avg * old_count + score) / (old_count + 1). The whole
// computation runs server-side in one pipeline update so concurrent ratings
// never read a stale aggregate.
func (r *mongoUserRepo) ApplyRating(ctx context.Context, userID string, score int) error {
	newAvg := bson.D{
		{Key: "$divide", Value: bson.A{
			bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$multiply", Value: bson.A{"$rating", "$total_ratings"}}},
				score,
			}}},
			bson.D{{Key: "$add", Value: bson.A{"$total_ratings", 1}}},
		}},
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: bson.D{{Key: "$round", Value: bson.A{newAvg, 2}}}},
			{Key: "total_ratings", Value: bson.D{{Key: "$add", Value: bson.A{"$total_ratings", 1}}}},
		}}},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": userID}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to apply rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to apply rating: user %s not found", userID)
	}
	return nil
}

// IncrementCompletedJobs bumps the gardener's completed job counter.
func (r *mongoUserRepo) IncrementCompletedJobs(ctx context.Context, gardenerID string) error {
	filter := bson.M{"id": gardenerID, "role": models.RoleGardener}
	update := bson.M{"$inc": bson.M{"gardener.completed_jobs": 1}}

	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to increment completed jobs: %w", err)
	}
	return nil
}
