package models

import "errors"

// Error taxonomy surfaced to handlers, which map these to HTTP statuses.
// Services wrap them with fmt.Errorf("%w: ...") for context.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrUpstream         = errors.New("upstream failure")
)
