// Package apperrors defines the error categories shared by the service and
// handler layers. Services wrap these sentinels with context; handlers map
// them to HTTP statuses with errors.Is. Anything not matching a sentinel is
// treated as an internal failure.
package apperrors

import "errors"

var (
	// ErrUnauthorized means the caller's identity does not permit the
	// operation (wrong subject, or a recipient-only action by a non-recipient).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means the referenced user, photo or message does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the operation would duplicate existing state,
	// such as liking the same user twice.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput means the request itself is malformed or violates an
	// operation precondition, such as an empty message body.
	ErrInvalidInput = errors.New("invalid input")
)
