package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrExternalUnavailable means the country reference source could not be
	// reached or answered with a non-success status.
	ErrExternalUnavailable = errors.New("external source unavailable")
	// ErrExternalMalformed means the source answered but the body could not be decoded.
	ErrExternalMalformed = errors.New("external source returned malformed data")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)
