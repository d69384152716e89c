package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidToken indicates a missing or unverifiable bearer token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTenantMismatch occurs when a caller addresses a tenant outside
	// its own membership.
	ErrTenantMismatch = errors.New("tenant mismatch")
)
