package domain

import "errors"

var (
	ErrNotFound      = errors.New("hotel not found")
	ErrDuplicateID   = errors.New("hotel id already exists")
	ErrMissingFields = errors.New("missing required fields")
	ErrTooManyFiles  = errors.New("too many files")
	ErrFileTooLarge  = errors.New("file too large")
)
