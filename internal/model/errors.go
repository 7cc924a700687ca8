package model

import "errors"

// Validation errors. Any of these means the request was rejected without mutation.
var (
	ErrMissingPlayerID  = errors.New("player id is required")
	ErrInvalidLanguage  = errors.New("invalid language")
	ErrInvalidLevel     = errors.New("level out of range")
	ErrInvalidTime      = errors.New("time must not be negative")
	ErrInvalidInputKind = errors.New("invalid input kind")
	ErrInvalidSegment   = errors.New("input segment must start before it ends")
)

// IsValidation reports whether err is one of the validation errors
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingPlayerID) ||
		errors.Is(err, ErrInvalidLanguage) ||
		errors.Is(err, ErrInvalidLevel) ||
		errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrInvalidInputKind) ||
		errors.Is(err, ErrInvalidSegment)
}
