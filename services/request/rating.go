package request

import (
	"context"
	"fmt"
	"time"

	"github.com/ConteMartin/PASTO/models"
	"github.com/ConteMartin/PASTO/utils"

	"go.uber.org/zap"
)

// Rate records a post-completion rating for one side of a request and folds
// it into the ratee's aggregate reputation. Each side rates at most once,
// and only once the request is completed.
func (s *DefaultRequestService) Rate(ctx context.Context, requestID, raterID, raterRole string, score int, review string) error {
	if score < 1 || score > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	req, err := s.getByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != models.StatusCompleted {
		return fmt.Errorf("%w: request is %s", ErrNotEligible, req.Status)
	}

	var side, rateeID string
	switch raterRole {
	case models.RoleClient:
		if req.ClientID != raterID {
			return fmt.Errorf("%w: not the owning client", ErrNotEligible)
		}
		if req.ClientRating != nil {
			return ErrAlreadyRated
		}
		side = "client_rating"
		rateeID = *req.GardenerID
	case models.RoleGardener:
		if req.GardenerID == nil || *req.GardenerID != raterID {
			return fmt.Errorf("%w: not the assigned gardener", ErrNotEligible)
		}
		if req.GardenerRating != nil {
			return ErrAlreadyRated
		}
		side = "gardener_rating"
		rateeID = req.ClientID
	default:
		return fmt.Errorf("%w: unknown rater role %q", ErrInvalidInput, raterRole)
	}

	rating := models.Rating{
		Score:     score,
		Review:    review,
		RatedBy:   raterID,
		CreatedAt: time.Now().UTC(),
	}

	matched, err := s.Repo.SetRating(ctx, requestID, side, rating)
	if err != nil {
		return fmt.Errorf("failed to record rating: %w", err)
	}
	if !matched {
		// Completed status was already verified; the slot filled between
		// the snapshot and the write.
		return ErrAlreadyRated
	}

	if err := s.Users.ApplyRating(ctx, rateeID, score); err != nil {
		return fmt.Errorf("failed to update aggregate rating: %w", err)
	}

	utils.GetLogger().Info("service request rated",
		zap.String("serviceId", requestID),
		zap.String("raterRole", raterRole),
		zap.Int("score", score))

	return nil
}
