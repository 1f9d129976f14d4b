package senzor

import "errors"

var (
	ErrMissingWebID       = errors.New("senzor: webId is required")
	ErrAlreadyInitialized = errors.New("senzor: already initialized")
	ErrNotInitialized     = errors.New("senzor: not initialized")
	ErrNoHost             = errors.New("senzor: no host document")
	ErrPanic              = errors.New("senzor: recovered from panic")
)
