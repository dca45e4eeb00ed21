// Package repository defines error types that are reused across multiple
// repositories. These sentinel values let handlers distinguish failure
// scenarios: ErrForbidden means the caller is not the owner of the tour it
// tried to touch, while ErrConflict is reserved for write conflicts should
// an optimistic concurrency token ever be added (no version column exists
// today, so nothing raises it).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a tour
// they do not own. Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is reserved for optimistic-concurrency failures. Full-tour
// replacement is currently last-writer-wins, so it is defined but never
// returned. Handlers would translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
