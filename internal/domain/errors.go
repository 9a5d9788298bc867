package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, guest count below one).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthenticated is returned when no valid session accompanies a request
// that requires one, or when login credentials do not match.
// Handlers should map this to HTTP 401.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrConflict is returned when a unique constraint would be violated
// (e.g. registering an email or username that is already taken).
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
