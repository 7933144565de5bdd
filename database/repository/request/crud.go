package requestRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/ConteMartin/PASTO/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new service request.
func (r *mongoRequestRepo) Create(ctx context.Context, req *models.ServiceRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	req.CreatedAt = now
	req.StatusUpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to insert service request: %w", err)
	}
	return nil
}

// GetByID returns a service request by its ID.
func (r *mongoRequestRepo) GetByID(ctx context.Context, id string) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByClient fetches all requests created by a client, newest first.
func (r *mongoRequestRepo) GetByClient(ctx context.Context, clientID string) ([]models.ServiceRequest, error) {
	return r.findAll(ctx, bson.M{"client_id": clientID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// GetByGardener fetches all requests assigned to a gardener, newest first.
func (r *mongoRequestRepo) GetByGardener(ctx context.Context, gardenerID string) ([]models.ServiceRequest, error) {
	return r.findAll(ctx, bson.M{"gardener_id": gardenerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// GetAvailable fetches pending requests oldest-first.
func (r *mongoRequestRepo) GetAvailable(ctx context.Context) ([]models.ServiceRequest, error) {
	return r.findAll(ctx, bson.M{"status": models.StatusPending},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

func (r *mongoRequestRepo) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.ServiceRequest, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []models.ServiceRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
