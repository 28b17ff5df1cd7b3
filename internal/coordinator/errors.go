package coordinator

import "errors"

// Sentinel errors for coordinator operations. Check with errors.Is.
var (
	// ErrUnsupportedAction is returned for action names outside the
	// fixed command vocabulary.
	ErrUnsupportedAction = errors.New("coordinator: unsupported action")

	// ErrUnavailable is returned when a command cannot reach the
	// coordinator or its plugin.
	ErrUnavailable = errors.New("coordinator: unavailable")

	// ErrMissingParameter is returned when an action lacks its
	// required parameter.
	ErrMissingParameter = errors.New("coordinator: missing action parameter")

	// ErrUnknownPlugin is returned when no plugin matches the id.
	ErrUnknownPlugin = errors.New("coordinator: unknown plugin")
)
