package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ConteMartin/PASTO/models"
	"github.com/ConteMartin/PASTO/services/pricing"
	"github.com/ConteMartin/PASTO/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Estimate returns a price/duration quote without touching any state. The
// same estimator runs again at creation, so the preview and the frozen
// price on the created request always agree.
func (s *DefaultRequestService) Estimate(serviceType string, width, length float64, difficulty *string) (models.PriceQuote, error) {
	quote, err := s.Estimator.Estimate(serviceType, width, length, difficulty)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidInput) {
			return models.PriceQuote{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return models.PriceQuote{}, err
	}
	return quote, nil
}

// Create validates the input, freezes the quote and persists the request in
// pending state.
func (s *DefaultRequestService) Create(ctx context.Context, input CreateInput) (*models.ServiceRequest, error) {
	if input.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client id", ErrInvalidInput)
	}
	if input.Address == "" {
		return nil, fmt.Errorf("%w: missing address", ErrInvalidInput)
	}
	if input.PruningDifficulty != nil && input.ServiceType != models.ServicePruning {
		return nil, fmt.Errorf("%w: pruning difficulty only applies to pruning", ErrInvalidInput)
	}

	quote, err := s.Estimate(input.ServiceType, input.TerrainWidth, input.TerrainLength, input.PruningDifficulty)
	if err != nil {
		return nil, err
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	req := &models.ServiceRequest{
		ClientID:          input.ClientID,
		ServiceType:       input.ServiceType,
		Address:           input.Address,
		Latitude:          input.Latitude,
		Longitude:         input.Longitude,
		TerrainWidth:      input.TerrainWidth,
		TerrainLength:     input.TerrainLength,
		Images:            images,
		PruningDifficulty: input.PruningDifficulty,
		ScheduledDate:     input.ScheduledDate,
		IsImmediate:       input.IsImmediate,
		EstimatedPrice:    quote.EstimatedPrice,
		EstimatedDuration: quote.EstimatedDuration,
		Currency:          quote.Currency,
		Status:            models.StatusPending,
		Notes:             input.Notes,
	}

	if err := s.Repo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create service request: %w", err)
	}

	s.invalidateAvailableCache(ctx)

	utils.GetLogger().Info("service request created",
		zap.String("serviceId", req.ID),
		zap.String("clientId", req.ClientID),
		zap.String("serviceType", req.ServiceType),
		zap.Float64("estimatedPrice", req.EstimatedPrice))

	return req, nil
}

// ListByClient returns the client's requests, newest first.
func (s *DefaultRequestService) ListByClient(ctx context.Context, clientID string) ([]models.ServiceRequest, error) {
	requests, err := s.Repo.GetByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client requests: %w", err)
	}
	if requests == nil {
		requests = []models.ServiceRequest{}
	}
	return requests, nil
}

// ListByGardener returns the gardener's assigned jobs, newest first.
func (s *DefaultRequestService) ListByGardener(ctx context.Context, gardenerID string) ([]models.ServiceRequest, error) {
	requests, err := s.Repo.GetByGardener(ctx, gardenerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gardener jobs: %w", err)
	}
	if requests == nil {
		requests = []models.ServiceRequest{}
	}
	return requests, nil
}

// UpdateStatus applies a guarded lifecycle transition. The guard is checked
// against a snapshot first for a precise error, then re-checked inside the
// storage update filter so a concurrent change can never be overwritten.
func (s *DefaultRequestService) UpdateStatus(ctx context.Context, requestID, actorID, actorRole, newStatus string) (*models.ServiceRequest, error) {
	if newStatus == models.StatusAccepted {
		// Acceptance carries the exclusivity property and goes through Accept.
		return nil, fmt.Errorf("%w: acceptance must go through accept", ErrInvalidTransition)
	}

	req, err := s.getByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := validateTransition(req, newStatus, actorID, actorRole); err != nil {
		return nil, err
	}

	from := req.Status
	now := time.Now().UTC()
	matched, err := s.Repo.UpdateStatus(ctx, requestID, from, newStatus, actorFieldFor(newStatus), actorID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}
	if !matched {
		// The guard held on the snapshot but not at write time: the request
		// moved underneath us. The document is untouched.
		return nil, fmt.Errorf("%w: request state changed concurrently", ErrInvalidTransition)
	}

	req.Status = newStatus
	req.StatusUpdatedAt = now

	if from == models.StatusPending {
		s.invalidateAvailableCache(ctx)
	}
	if newStatus == models.StatusCompleted && req.GardenerID != nil {
		if err := s.Users.IncrementCompletedJobs(ctx, *req.GardenerID); err != nil {
			utils.GetLogger().Error("failed to increment completed jobs",
				zap.String("gardenerId", *req.GardenerID), zap.Error(err))
		}
	}

	s.Dispatcher.OnTransition(ctx, req, from, newStatus, actorID)

	utils.GetLogger().Info("service request transitioned",
		zap.String("serviceId", req.ID),
		zap.String("from", from),
		zap.String("to", newStatus),
		zap.String("actorId", actorID))

	return req, nil
}

func (s *DefaultRequestService) getByID(ctx context.Context, id string) (*models.ServiceRequest, error) {
	req, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch service request: %w", err)
	}
	return req, nil
}
