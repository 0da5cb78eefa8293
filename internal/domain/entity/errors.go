package entity

import "errors"

// Error taxonomy shared by repositories, use cases and the REST layer.
// Wrap these with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	// ErrNotFound means the referenced finder, trip or indicator does not exist. Maps to 404.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden means the actor is authenticated but does not own the resource
	// and is not an admin. Maps to 403.
	ErrForbidden = errors.New("user forbidden")

	// ErrUnauthorized means no valid identity was presented. Maps to 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMethodNotAllowed means the operation is not valid for the resource's current
	// lifecycle state (e.g. editing an ACTIVE trip). Maps to 405.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrInvalidRequest means malformed input such as an unknown rebuild period. Maps to 400.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrValidation means a schema-level constraint was violated. Maps to 422.
	ErrValidation = errors.New("validation error")

	// ErrConflict means a unique constraint was violated.
	ErrConflict = errors.New("conflict")

	// ErrCacheMiss is returned by cache backends when a key is absent or expired.
	ErrCacheMiss = errors.New("cache miss")
)
