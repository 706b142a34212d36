package services

import "errors"

// Sentinel errors surfaced to handlers. Authentication failures are
// deliberately indistinguishable from unknown usernames so the login
// endpoint cannot be used to enumerate accounts.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
)
