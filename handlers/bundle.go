package handlers

import (
	userRepo "github.com/ConteMartin/PASTO/database/repository/user"
)

// HandlerBundle groups the assembled handlers for route registration.
type HandlerBundle struct {
	// UserRepo backs the auth middleware.
	UserRepo userRepo.UserRepository

	Auth          *AuthHandler
	Requests      *RequestHandler
	Notifications *NotificationHandler
}
