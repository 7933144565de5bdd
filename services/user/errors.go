package user

import "errors"

var (
	// ErrInvalidInput signals malformed signup fields.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrEmailTaken signals a registration attempt with an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound signals an unknown user id.
	ErrNotFound = errors.New("user not found")
)
