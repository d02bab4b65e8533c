// Package common defines shared constants and sentinel errors used across
// the store, backend, and CLI layers of supplytrack. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound         = errors.New("not found")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrValidation       = errors.New("validation failed")

	// Backend-level errors.
	ErrConnection = errors.New("backend connection failed")
)
