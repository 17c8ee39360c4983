package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// record does not exist in its collection.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing description, unparseable amount).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrImport is returned when a document was decoded but a mandatory field
// could not be extracted from it (e.g. no hotel name in a booking email).
// Nothing is written to the store when this error is returned.
var ErrImport = errors.New("import failed")

// ErrNotConfigured is returned when an operation needs a credential or
// endpoint that has not been configured (e.g. a flight-status API key).
var ErrNotConfigured = errors.New("not configured")

// ErrConflict is returned by the store when a versioned write lost the race
// against a concurrent writer more times than the retry budget allows.
var ErrConflict = errors.New("version conflict")
