package models

import "time"

// User roles.
const (
	RoleClient   = "client"
	RoleGardener = "gardener"
)

// GardenerProfile carries gardener-side marketplace data, embedded in the
// user document for gardener accounts.
type GardenerProfile struct {
	Tools         []string `bson:"tools" json:"tools"`
	CoverageAreas []string `bson:"coverage_areas" json:"coverage_areas"`
	IsAvailable   bool     `bson:"is_available" json:"is_available"`
	CompletedJobs int      `bson:"completed_jobs" json:"completed_jobs"`
}

// User represents a platform account, client or gardener.
type User struct {
	ID           string           `bson:"id" json:"user_id"`
	Email        string           `bson:"email" json:"email"`
	PasswordHash string           `bson:"password_hash" json:"-"`
	FullName     string           `bson:"full_name" json:"full_name"`
	Role         string           `bson:"role" json:"role"`
	Phone        string           `bson:"phone,omitempty" json:"phone,omitempty"`
	IsActive     bool             `bson:"is_active" json:"is_active"`
	Rating       float64          `bson:"rating" json:"rating"` // aggregate reputation as a ratee
	TotalRatings int              `bson:"total_ratings" json:"total_ratings"`
	Gardener     *GardenerProfile `bson:"gardener,omitempty" json:"gardener,omitempty"`
	CreatedAt    time.Time        `bson:"created_at" json:"created_at"`
}

// DisplayName returns the name shown to the other side of the marketplace.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
