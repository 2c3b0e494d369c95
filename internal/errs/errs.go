// Package errs defines the error classifications callers must
// distinguish. Every error surfaced by the service layer wraps exactly
// one of these sentinels; the HTTP layer maps them to status codes.
package errs

import "errors"

var (
	// ErrNotFound: the referenced entity does not exist. Existence is
	// always checked before authorization.
	ErrNotFound = errors.New("not found")

	// ErrForbidden: the principal is authenticated but lacks permission
	// for the action or scope.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated: no valid credential was presented.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrConflict: the operation would violate a uniqueness constraint,
	// such as a duplicate (village, year) budget or a duplicate email.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput: a required field is missing or semantically
	// invalid.
	ErrInvalidInput = errors.New("invalid input")
)
