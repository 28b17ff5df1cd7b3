package device

import "strconv"

// Device is a controllable or sensing endpoint owned by a plugin. The
// address is whatever the plugin's protocol uses to reach it; HouseAgent
// treats it as opaque.
type Device struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`

	// Plugin and Location carry the referenced names on the wire.
	Plugin   string  `json:"plugin"`
	Location *string `json:"location"`
}

// ObjectID returns the id as it appears in URLs.
func (d Device) ObjectID() string {
	return strconv.FormatInt(d.ID, 10)
}
