package event

import "github.com/houseagent/houseagent-core/internal/collection"

// The event endpoints share the resource error vocabulary so the API
// layer maps them the same way.
var ErrNotFound = collection.ErrNotFound

// Invalid reports a rejected save field.
func Invalid(field, reason string) error {
	return collection.Invalid(field, reason)
}
