package board

import "errors"

// Client-side error taxonomy. Server-reported kinds mirror the REST error
// mapping; ErrNetwork never reached the server at all.
var (
	ErrNetwork           = errors.New("network failure")
	ErrValidation        = errors.New("validation rejected")
	ErrNotFound          = errors.New("task not found")
	ErrServerUnavailable = errors.New("server unavailable")

	ErrUnknownTask      = errors.New("task not in local collection")
	ErrControllerClosed = errors.New("controller closed")
)
