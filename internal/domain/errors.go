package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// trip, city stop, activity, user or catalog entry does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business rule
// (e.g. end date before start date, a reorder list that is not a permutation).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would violate a uniqueness rule,
// such as signing up with an email that is already registered.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned when credentials do not match or no session is
// active. It deliberately does not say which of the two happened.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrPersistence is returned when the durable store rejects a write.
// The in-memory state is left as it was before the call.
var ErrPersistence = errors.New("persistence failure")
