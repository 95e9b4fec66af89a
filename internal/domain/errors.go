package domain

import "github.com/pkg/errors"

// Authentication failures. The messages double as the wire error codes.
var (
	// ErrMissingBearer indicates the Authorization header is absent or not a bearer credential.
	ErrMissingBearer = errors.New("missing_bearer")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid_token")
)

// Validation failures. They never reach storage.
var (
	// ErrInvalidValue indicates a weight value that is not a finite number within column range.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidID indicates an entry id that is not a positive integer.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidTimestamp indicates a timestamp that cannot be read as an instant.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrNothingToUpdate indicates a partial update without any recognised field.
	ErrNothingToUpdate = errors.New("nothing to update")
)
