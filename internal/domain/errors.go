package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("room is not available for the requested dates")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("invalid input")
)
