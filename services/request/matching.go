package request

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ConteMartin/PASTO/models"
	"github.com/ConteMartin/PASTO/utils"

	"go.uber.org/zap"
)

const (
	availableCacheKey = "matching:available"
	availableCacheTTL = 10 * time.Second
)

// Available returns the matching pool: pending requests oldest-first,
// trimmed to what a prospective gardener needs. Reads are served through a
// short-TTL cache and are deliberately not linearizable with in-flight
// accepts; staleness is resolved by ErrAlreadyAccepted on the subsequent
// accept attempt.
func (s *DefaultRequestService) Available(ctx context.Context) ([]models.AvailableJob, error) {
	if jobs, ok := s.cachedAvailable(ctx); ok {
		return jobs, nil
	}

	requests, err := s.Repo.GetAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list available requests: %w", err)
	}

	clientIDs := make([]string, 0, len(requests))
	seen := make(map[string]bool, len(requests))
	for _, r := range requests {
		if !seen[r.ClientID] {
			seen[r.ClientID] = true
			clientIDs = append(clientIDs, r.ClientID)
		}
	}
	clients, err := s.Users.GetManyByIDs(ctx, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve client names: %w", err)
	}

	jobs := make([]models.AvailableJob, 0, len(requests))
	for _, r := range requests {
		clientName := ""
		if c, ok := clients[r.ClientID]; ok {
			clientName = c.DisplayName()
		}
		jobs = append(jobs, models.AvailableJob{
			ID:                r.ID,
			ServiceType:       r.ServiceType,
			Address:           r.Address,
			TerrainArea:       r.TerrainArea(),
			EstimatedPrice:    r.EstimatedPrice,
			EstimatedDuration: r.EstimatedDuration,
			Currency:          r.Currency,
			ClientName:        clientName,
			Notes:             r.Notes,
			IsImmediate:       r.IsImmediate,
			ScheduledDate:     r.ScheduledDate,
			CreatedAt:         r.CreatedAt,
		})
	}

	s.cacheAvailable(ctx, jobs)
	return jobs, nil
}

// Accept claims a pending request for a gardener. At most one gardener ever
// wins: the check-and-set in the store serializes concurrent attempts, and
// every loser observes a definitive ErrAlreadyAccepted.
func (s *DefaultRequestService) Accept(ctx context.Context, requestID, gardenerID string) (*models.ServiceRequest, error) {
	now := time.Now().UTC()
	matched, err := s.Repo.AcceptPending(ctx, requestID, gardenerID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to accept service request: %w", err)
	}

	if !matched {
		// Distinguish a lost race from an unknown id or a dead request.
		req, err := s.getByID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if req.GardenerID != nil {
			return nil, ErrAlreadyAccepted
		}
		return nil, fmt.Errorf("%w: request is %s", ErrInvalidTransition, req.Status)
	}

	req, err := s.getByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.invalidateAvailableCache(ctx)
	s.Dispatcher.OnTransition(ctx, req, models.StatusPending, models.StatusAccepted, gardenerID)

	utils.GetLogger().Info("service request accepted",
		zap.String("serviceId", req.ID),
		zap.String("gardenerId", gardenerID))

	return req, nil
}

func (s *DefaultRequestService) cachedAvailable(ctx context.Context) ([]models.AvailableJob, bool) {
	if s.Cache == nil {
		return nil, false
	}
	data, err := s.Cache.Get(ctx, availableCacheKey).Result()
	if err != nil {
		return nil, false
	}
	var jobs []models.AvailableJob
	if err := json.Unmarshal([]byte(data), &jobs); err != nil {
		return nil, false
	}
	return jobs, true
}

func (s *DefaultRequestService) cacheAvailable(ctx context.Context, jobs []models.AvailableJob) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(jobs)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, availableCacheKey, data, availableCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache available pool", zap.Error(err))
	}
}

func (s *DefaultRequestService) invalidateAvailableCache(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, availableCacheKey).Err(); err != nil {
		utils.GetLogger().Warn("failed to invalidate available pool cache", zap.Error(err))
	}
}
