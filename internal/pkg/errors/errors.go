package errors

import "errors"

var (
	// ErrStoreUnavailable means the backing database could not be reached.
	// It propagates to the request boundary; callers render a degraded view.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrIntegrityViolation means a write conflicted with a uniqueness
	// constraint. For achievement grants this is absorbed as a no-op.
	ErrIntegrityViolation = errors.New("integrity violation")
	// ErrUnknownReference means a catalog entry or user row referenced by
	// name/id does not exist. Logged as a warning, never fatal.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
)
