package notification

import (
	"context"
	"errors"

	"github.com/ConteMartin/PASTO/models"
)

// ErrNotFound signals an unknown or foreign notification id.
var ErrNotFound = errors.New("notification not found")

// Dispatcher emits a notification record whenever a lifecycle transition
// changes who must act next, and serves the notification feed.
//
// OnTransition is synchronous but must never fail the triggering
// transition: creation failures are logged and swallowed.
type Dispatcher interface {
	OnTransition(ctx context.Context, req *models.ServiceRequest, from, to, actorID string)
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}
