package models

import "time"

// Service types offered on the platform.
const (
	ServiceGrassCutting = "grass_cutting"
	ServicePruning      = "pruning"
	ServiceCleaning     = "cleaning"
	ServiceMaintenance  = "maintenance"
)

// Pruning difficulty tiers.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Lifecycle states of a service request. Transitions are monotonic: a
// request never revisits an earlier state.
const (
	StatusPending    = "pending"
	StatusAccepted   = "accepted"
	StatusOnWay      = "on_way"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Rating is a single post-completion rating written once per side.
type Rating struct {
	Score     int       `bson:"score" json:"score"`
	Review    string    `bson:"review,omitempty" json:"review,omitempty"`
	RatedBy   string    `bson:"rated_by" json:"rated_by"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ServiceRequest is a single client-initiated unit of gardening work with a
// frozen price/duration quote. It is mutated only through the lifecycle
// state machine and never physically deleted; cancellation is a terminal
// status, not removal.
type ServiceRequest struct {
	ID                string     `bson:"id" json:"service_id"`
	ClientID          string     `bson:"client_id" json:"client_id"`
	GardenerID        *string    `bson:"gardener_id" json:"gardener_id"` // set exactly once, on acceptance
	ServiceType       string     `bson:"service_type" json:"service_type"`
	Address           string     `bson:"address" json:"address"`
	Latitude          float64    `bson:"latitude" json:"latitude"`
	Longitude         float64    `bson:"longitude" json:"longitude"`
	TerrainWidth      float64    `bson:"terrain_width" json:"terrain_width"`
	TerrainLength     float64    `bson:"terrain_length" json:"terrain_length"`
	Images            []string   `bson:"images" json:"images"`
	PruningDifficulty *string    `bson:"pruning_difficulty,omitempty" json:"pruning_difficulty,omitempty"`
	ScheduledDate     *time.Time `bson:"scheduled_date,omitempty" json:"scheduled_date,omitempty"`
	IsImmediate       bool       `bson:"is_immediate" json:"is_immediate"`
	EstimatedPrice    float64    `bson:"estimated_price" json:"estimated_price"`
	EstimatedDuration int        `bson:"estimated_duration" json:"estimated_duration"` // minutes
	Currency          string     `bson:"currency" json:"currency"`
	Status            string     `bson:"status" json:"status"`
	Notes             string     `bson:"notes,omitempty" json:"notes,omitempty"`
	ClientRating      *Rating    `bson:"client_rating,omitempty" json:"client_rating,omitempty"`     // written by the client, rates the gardener
	GardenerRating    *Rating    `bson:"gardener_rating,omitempty" json:"gardener_rating,omitempty"` // written by the gardener, rates the client
	CreatedAt         time.Time  `bson:"created_at" json:"created_at"`
	StatusUpdatedAt   time.Time  `bson:"status_updated_at" json:"status_updated_at"`
}

// TerrainArea returns the terrain surface in square meters.
func (r *ServiceRequest) TerrainArea() float64 {
	return r.TerrainWidth * r.TerrainLength
}

// IsTerminal reports whether the request reached a terminal state.
func (r *ServiceRequest) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusCancelled
}

// PriceQuote is the output of the pricing estimator.
type PriceQuote struct {
	ServiceType       string  `json:"service_type"`
	TerrainArea       float64 `json:"terrain_area"`
	EstimatedPrice    float64 `json:"estimated_price"`
	EstimatedDuration int     `json:"estimated_duration"` // minutes
	Currency          string  `json:"currency"`
}

// AvailableJob is the trimmed view of a pending request shown to prospective
// gardeners in the matching pool.
type AvailableJob struct {
	ID                string     `json:"service_id"`
	ServiceType       string     `json:"service_type"`
	Address           string     `json:"address"`
	TerrainArea       float64    `json:"terrain_area"`
	EstimatedPrice    float64    `json:"estimated_price"`
	EstimatedDuration int        `json:"estimated_duration"`
	Currency          string     `json:"currency"`
	ClientName        string     `json:"client_name"`
	Notes             string     `json:"notes,omitempty"`
	IsImmediate       bool       `json:"is_immediate"`
	ScheduledDate     *time.Time `json:"scheduled_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
