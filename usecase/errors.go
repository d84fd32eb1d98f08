package usecase

import "errors"

var (
	ErrNoActiveSession = errors.New("no active monitoring session")
	ErrSessionEnded    = errors.New("monitoring session already ended")
	ErrNotFound        = errors.New("not found")
	ErrNotOwner        = errors.New("resource belongs to another user")

	ErrEmailTaken        = errors.New("email already registered")
	ErrUsernameTaken     = errors.New("username already exists")
	ErrInvalidLogin      = errors.New("invalid email or password")
	ErrTwoFactorRequired = errors.New("two factor code required")
	ErrInvalidTwoFactor  = errors.New("invalid two factor code")
	ErrTwoFactorState    = errors.New("two factor already in requested state")

	ErrInvalidThreshold = errors.New("calibration threshold missing")
	ErrInvalidTodo      = errors.New("task and due date are required")
	ErrEmptyMessage     = errors.New("message is required")
)
