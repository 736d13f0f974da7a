package domain

import "errors"

// Store and validation failures.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotImplemented = errors.New("not implemented")
)

// Credential failures. The runner reacts to these by prompting.
var (
	// ErrNotAuthenticated means the server rejected the credentials.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrStepUpRequired means the server wants a two-factor code, or the
	// session that carried one expired.
	ErrStepUpRequired = errors.New("two factor authentication required")

	// ErrStepUpUnsupported is returned when a code is attached to token
	// or anonymous credentials.
	ErrStepUpUnsupported = errors.New("two factor authentication is only supported for basic credentials")

	// ErrAnonymousAuth is returned where an identity is needed.
	ErrAnonymousAuth = errors.New("anonymous credentials are not allowed")
)

// Request failures.
var (
	// ErrCanceled covers user aborts, refused prompts and untrusted hosts.
	ErrCanceled = errors.New("operation canceled")

	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedResponse means the body did not have the expected shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrNoSuchElement is returned by a paged request advanced past its
	// last page.
	ErrNoSuchElement = errors.New("no more pages")

	// ErrConnectionClosed is returned when a single-shot or closed
	// connection is used again.
	ErrConnectionClosed = errors.New("connection closed")

	ErrRetriesExhausted = errors.New("retry attempts exhausted")
)
