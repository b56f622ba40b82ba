package model

import "errors"

// Sentinel errors returned by stores and managers. Handlers translate
// these into the HTTP error envelope.
var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("context version conflict")
	ErrSessionExpired  = errors.New("session expired")
)
