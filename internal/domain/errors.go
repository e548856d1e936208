package domain

import "errors"

// Client input errors. These map to 4xx responses and are not operator-facing.
var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrInvalidBody      = errors.New("invalid request body")
	ErrMessageRequired  = errors.New("message is required")
)
