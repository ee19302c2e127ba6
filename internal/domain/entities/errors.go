package entities

import "errors"

// Typed failures returned by registry operations. Operations detect a
// failure, return it, and apply zero side effects; retry is a caller
// concern.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("content address already registered")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidInput    = errors.New("invalid input")
	ErrFileLocked      = errors.New("file is locked")
	ErrQuotaExceeded   = errors.New("quota exceeded")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidTime     = errors.New("expiry must be in the future")
	ErrPaymentFailed   = errors.New("payment failed")
	ErrPaused          = errors.New("registry is paused")
)
