package requestRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/ConteMartin/PASTO/models"

	"go.mongodb.org/mongo-driver/bson"
)

// AcceptPending is the exclusivity point for the accept race: the filter
// only matches while the request is still pending and unassigned, so two
// concurrent accepts can never both succeed. MatchedCount tells the winner
// apart from the losers.
func (r *mongoRequestRepo) AcceptPending(ctx context.Context, id, gardenerID string, at time.Time) (bool, error) {
	filter := bson.M{
		"id":          id,
		"status":      models.StatusPending,
		"gardener_id": nil,
	}
	update := bson.M{
		"$set": bson.M{
			"gardener_id":       gardenerID,
			"status":            models.StatusAccepted,
			"status_updated_at": at,
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to accept service request: %w", err)
	}
	return res.MatchedCount == 1, nil
}

// UpdateStatus performs a guarded status change. The precondition (current
// status plus the bound actor) lives in the filter; a MatchedCount of zero
// means the guard no longer holds and the document is untouched.
func (r *mongoRequestRepo) UpdateStatus(ctx context.Context, id, from, to, actorField, actorID string, at time.Time) (bool, error) {
	filter := bson.M{
		"id":      id,
		"status":  from,
		actorField: actorID,
	}
	update := bson.M{
		"$set": bson.M{
			"status":            to,
			"status_updated_at": at,
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update service request status: %w", err)
	}
	return res.MatchedCount == 1, nil
}

// SetRating writes one side's rating slot ("client_rating" or
// "gardener_rating"), guarded on completion and the slot being empty so a
// side can never rate twice.
func (r *mongoRequestRepo) SetRating(ctx context.Context, id, side string, rating models.Rating) (bool, error) {
	filter := bson.M{
		"id":     id,
		"status": models.StatusCompleted,
		side:     nil,
	}
	update := bson.M{
		"$set": bson.M{side: rating},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to set rating: %w", err)
	}
	return res.MatchedCount == 1, nil
}
