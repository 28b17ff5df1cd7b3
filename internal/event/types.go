package event

// Event is an automation rule header. Its behavior lives in the
// trigger, condition and action rows that reference it.
type Event struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Trigger is a reconstructed, display-ready trigger. Which fields are
// populated depends on the trigger type: timed triggers carry Cron,
// value-change triggers carry the value reference and comparison.
type Trigger struct {
	EventID int64  `json:"event_id"`
	Type    string `json:"type"`

	Cron           string `json:"cron,omitempty"`
	CurrentValueID string `json:"current_value_id,omitempty"`
	Condition      string `json:"condition,omitempty"`
	ConditionValue string `json:"condition_value,omitempty"`

	// Device and Value are resolved names for value-change triggers.
	Device string `json:"device,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Condition is a reconstructed extra requirement checked when an event
// fires.
type Condition struct {
	EventID int64  `json:"event_id"`
	Type    string `json:"type"`

	CurrentValueID string `json:"current_values_id,omitempty"`
	Condition      string `json:"condition,omitempty"`
	ConditionValue string `json:"condition_value,omitempty"`

	Device string `json:"device,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Action is a reconstructed consequence of an event firing.
type Action struct {
	EventID int64  `json:"event_id"`
	Type    string `json:"type"`

	Device           string `json:"device,omitempty"`
	ControlValue     string `json:"control_value,omitempty"`
	ControlValueName string `json:"control_value_name,omitempty"`
	Command          string `json:"command,omitempty"`
	ControlType      string `json:"control_type,omitempty"`
}

// View is everything the events page needs in one shape.
type View struct {
	Events     []Event     `json:"events"`
	Triggers   []Trigger   `json:"triggers"`
	Conditions []Condition `json:"conditions"`
	Actions    []Action    `json:"actions"`
}

// Row type names the reconstruction matches on. They must agree with
// the seeded vocabulary.
const (
	TriggerTypeTimed       = "Timed trigger"
	TriggerTypeValueChange = "Device value change"
	ConditionTypeValue     = "Device value"
	ActionTypeDevice       = "Device action"
)

// unknownLabel stands in for any name a follow-up lookup could not
// resolve. The row is still served; only the label degrades.
const unknownLabel = "unknown"
