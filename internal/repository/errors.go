package repository

import "errors"

var (
	// Common errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
