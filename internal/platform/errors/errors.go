package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNoNightInProgress = errors.New("no night in progress")
	ErrNightInProgress   = errors.New("a night is already in progress")
	ErrInvalidQuality    = errors.New("sleep quality must be between 0 and 5")
)
