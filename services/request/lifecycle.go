package request

import (
	"fmt"

	"github.com/ConteMartin/PASTO/models"
)

// allowedTransitions is the lifecycle edge set:
// pending -> accepted -> on_way -> in_progress -> completed, with
// accepted -> in_progress as a shortcut (on_way is optional) and cancelled
// reachable from pending or accepted only. No edge revisits an earlier
// state.
var allowedTransitions = map[string][]string{
	models.StatusPending:    {models.StatusAccepted, models.StatusCancelled},
	models.StatusAccepted:   {models.StatusOnWay, models.StatusInProgress, models.StatusCancelled},
	models.StatusOnWay:      {models.StatusInProgress},
	models.StatusInProgress: {models.StatusCompleted},
}

func transitionAllowed(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// actorFieldFor returns the request field the acting party must be bound to
// for the guarded update: cancellation belongs to the owning client, every
// other transition to the assigned gardener.
func actorFieldFor(target string) string {
	if target == models.StatusCancelled {
		return "client_id"
	}
	return "gardener_id"
}

// validateTransition checks a lifecycle guard against a request snapshot.
// Transitions are never silently coerced: any guard failure is
// ErrInvalidTransition.
func validateTransition(req *models.ServiceRequest, target, actorID, actorRole string) error {
	if !transitionAllowed(req.Status, target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, req.Status, target)
	}

	switch target {
	case models.StatusAccepted:
		// Acceptance goes through Accept, which additionally enforces the
		// cross-request exclusivity property.
		if actorRole != models.RoleGardener || req.GardenerID != nil {
			return fmt.Errorf("%w: request is not open for acceptance", ErrInvalidTransition)
		}
	case models.StatusCancelled:
		if actorRole != models.RoleClient || req.ClientID != actorID {
			return fmt.Errorf("%w: only the owning client may cancel", ErrInvalidTransition)
		}
	default:
		if actorRole != models.RoleGardener || req.GardenerID == nil || *req.GardenerID != actorID {
			return fmt.Errorf("%w: only the assigned gardener may move to %s", ErrInvalidTransition, target)
		}
	}
	return nil
}
