// Package collection implements the shared list/get/create/update/delete
// shape behind the management API's entity endpoints.
//
// Each entity package supplies a Provider (the SQLite persistence
// strategy) and gets back a Collection: an id-indexed in-memory snapshot
// whose mutations always persist before they become visible. Listing
// reloads from the provider, so external writes to the database show up
// on the next request.
package collection
