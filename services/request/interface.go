package request

import (
	"context"
	"time"

	requestRepo "github.com/ConteMartin/PASTO/database/repository/request"
	userRepo "github.com/ConteMartin/PASTO/database/repository/user"
	"github.com/ConteMartin/PASTO/models"
	"github.com/ConteMartin/PASTO/services/notification"
	"github.com/ConteMartin/PASTO/services/pricing"

	"github.com/go-redis/redis/v8"
)

// CreateInput carries the client-supplied fields of a new service request.
// Everything here is immutable after creation.
type CreateInput struct {
	ClientID          string
	ServiceType       string
	Address           string
	Latitude          float64
	Longitude         float64
	TerrainWidth      float64
	TerrainLength     float64
	Images            []string
	PruningDifficulty *string
	ScheduledDate     *time.Time
	IsImmediate       bool
	Notes             string
}

// RequestService is the dispatch engine surface consumed by the HTTP layer:
// quoting, request creation, the matching pool, the lifecycle state machine
// and the rating ledger.
type RequestService interface {
	Estimate(serviceType string, width, length float64, difficulty *string) (models.PriceQuote, error)
	Create(ctx context.Context, input CreateInput) (*models.ServiceRequest, error)
	ListByClient(ctx context.Context, clientID string) ([]models.ServiceRequest, error)
	ListByGardener(ctx context.Context, gardenerID string) ([]models.ServiceRequest, error)
	Available(ctx context.Context) ([]models.AvailableJob, error)
	Accept(ctx context.Context, requestID, gardenerID string) (*models.ServiceRequest, error)
	UpdateStatus(ctx context.Context, requestID, actorID, actorRole, newStatus string) (*models.ServiceRequest, error)
	Rate(ctx context.Context, requestID, raterID, raterRole string, score int, review string) error
}

// DefaultRequestService is the production implementation.
type DefaultRequestService struct {
	Repo       requestRepo.RequestRepository
	Users      userRepo.UserRepository
	Estimator  pricing.Estimator
	Dispatcher notification.Dispatcher
	// Cache serves the available-pool read cache; nil disables caching.
	Cache *redis.Client
}
