package plugin

import "strconv"

// Plugin is a registered protocol adapter. The authcode is its identity
// on the MQTT side; the database id is its identity on the API side.
type Plugin struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Authcode string `json:"authcode"`

	// Location is the location's name, null when unassigned.
	Location *string `json:"location"`

	// Status is true when the coordinator currently sees the plugin
	// online. It is decorated per request, never persisted.
	Status bool `json:"status"`
}

// ObjectID returns the id as it appears in URLs.
func (p Plugin) ObjectID() string {
	return strconv.FormatInt(p.ID, 10)
}

// StatusSource reports live plugin connectivity, keyed by authcode.
type StatusSource interface {
	Online(authcode string) bool
}

// DecorateStatus fills in Status for every plugin from a live source.
// A nil source leaves everything offline.
func DecorateStatus(plugins []Plugin, source StatusSource) {
	if source == nil {
		return
	}
	for i := range plugins {
		plugins[i].Status = source.Online(plugins[i].Authcode)
	}
}
