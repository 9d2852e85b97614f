package repository

import "errors"

// Sentinel errors returned by repository implementations. Callers match them with errors.Is.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrInsufficientStock = errors.New("insufficient stock")
)
