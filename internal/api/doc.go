// Package api exposes the HTTP management surface: CRUD over the
// resource collections, event rule persistence and reconstruction,
// history graph feeds, and action dispatch to plugins through the
// coordinator.
//
// The server follows the shared component lifecycle:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Mutations answer with an empty 204 only after the change has been
// persisted and the collection snapshot reloaded, so a follow-up read
// always sees the new state.
package api
