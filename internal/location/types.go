package location

import "strconv"

// Location is a named place a device or plugin can belong to. Locations
// nest one level through Parent.
type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	// Parent is the parent location's name, null at the top level.
	Parent *string `json:"parent"`

	// ParentID backs Parent; it never goes on the wire.
	ParentID *int64 `json:"-"`
}

// ObjectID returns the id as it appears in URLs.
func (l Location) ObjectID() string {
	return strconv.FormatInt(l.ID, 10)
}
