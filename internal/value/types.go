package value

import "strconv"

// Value is one datum a device exposes: a temperature, a switch state, a
// dim level. Plugins create and update values; the management plane only
// edits their presentation (label, history and control settings).
type Value struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`

	Device        string  `json:"device"`
	DeviceAddress string  `json:"device_address"`
	Location      *string `json:"location"`
	Plugin        string  `json:"plugin"`
	PluginID      int64   `json:"plugin_id"`

	Lastupdate    *string `json:"lastupdate"`
	HistoryType   *string `json:"history_type"`
	HistoryPeriod *string `json:"history_period"`
	ControlType   *int64  `json:"control_type"`
	Label         *string `json:"label"`
}

// ObjectID returns the id as it appears in URLs.
func (v Value) ObjectID() string {
	return strconv.FormatInt(v.ID, 10)
}

// HistoryType is a reference row describing how a value's history is
// aggregated.
type HistoryType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ObjectID returns the id as it appears in URLs.
func (h HistoryType) ObjectID() string {
	return strconv.FormatInt(h.ID, 10)
}

// HistoryPeriod is a reference row describing how often history is
// collected.
type HistoryPeriod struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Secs    int64  `json:"secs"`
	Sysflag int64  `json:"sysflag"`
}

// ObjectID returns the id as it appears in URLs.
func (h HistoryPeriod) ObjectID() string {
	return strconv.FormatInt(h.ID, 10)
}

// ControlType is a reference row describing how a value can be
// controlled, if at all.
type ControlType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ObjectID returns the id as it appears in URLs.
func (c ControlType) ObjectID() string {
	return strconv.FormatInt(c.ID, 10)
}

// Control type names as seeded in the reference vocabulary.
const (
	ControlTypeOnOff      = "CONTROL_TYPE_ON_OFF"
	ControlTypeDimmer     = "CONTROL_TYPE_DIMMER"
	ControlTypeThermostat = "CONTROL_TYPE_THERMOSTAT"
)

// ActionLabels returns the UI action labels for a control type name,
// keyed by the command parameter value each action submits.
func ActionLabels(controlType string) map[string]string {
	switch controlType {
	case ControlTypeThermostat:
		return map[string]string{"0": "Set thermostat setpoint"}
	case ControlTypeDimmer:
		return map[string]string{"0": "Set dim level"}
	case ControlTypeOnOff:
		return map[string]string{"1": "Power on", "0": "Power off"}
	default:
		return map[string]string{"0": "No actions available for this device"}
	}
}
