package domain

import "errors"

// ErrSessionNotFound is returned when an operation requires an existing
// session and the store has no record for the derived key.
var ErrSessionNotFound = errors.New("session not found")
