package user

import (
	"context"

	userRepo "github.com/ConteMartin/PASTO/database/repository/user"
	"github.com/ConteMartin/PASTO/models"
)

// RegisterInput carries the signup fields.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
	Phone    string
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

// UserService is the user directory: accounts, credentials and profiles.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}
