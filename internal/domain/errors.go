package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, empty display name).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when an operation requires administrator
// authority and the session's gate is still in the guest state.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("administrator access required")

// ErrWrongPIN is returned by the access gate when a submitted PIN does not
// match the shared secret. The gate stays in the guest state.
// Handlers should map this to HTTP 401.
var ErrWrongPIN = errors.New("wrong PIN")

// ErrNoSession is returned when a request carries an unknown or expired
// session ID. Handlers should map this to HTTP 401.
var ErrNoSession = errors.New("no such session")
