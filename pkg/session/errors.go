package session

import "errors"

var (
	// ErrScopeUnavailable indicates the backing storage cannot be used at all
	ErrScopeUnavailable = errors.New("session.scope_unavailable")

	// ErrInvalidKey indicates an empty storage key
	ErrInvalidKey = errors.New("session.invalid_key")
)
