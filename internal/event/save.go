package event

// SaveRequest is the JSON body accepted by the event save endpoint.
// Trigger, condition and action bags carry a "type" key naming the row
// type; every other key is stored verbatim as a parameter.
type SaveRequest struct {
	Name       string              `json:"name"`
	Enabled    string              `json:"enabled"`
	Trigger    map[string]string   `json:"trigger"`
	Conditions []map[string]string `json:"conditions"`
	Actions    []map[string]string `json:"actions"`
}

// Notifier is told after a successful save or delete so dependent
// state, such as a running scheduler, can reload.
type Notifier interface {
	Reload()
}

// Validate rejects a request before any row is written.
func (r SaveRequest) Validate() error {
	if r.Name == "" {
		return Invalid("name", "required")
	}
	if r.Enabled != "yes" && r.Enabled != "no" {
		return Invalid("enabled", `must be "yes" or "no"`)
	}
	if len(r.Trigger) == 0 {
		return Invalid("trigger", "required")
	}
	if r.Trigger["type"] == "" {
		return Invalid("trigger", "missing type")
	}
	if r.Trigger["type"] == TriggerTypeTimed {
		if err := ValidateCron(r.Trigger["cron"]); err != nil {
			return err
		}
	}
	for _, cond := range r.Conditions {
		if cond["type"] == "" {
			return Invalid("conditions", "missing type")
		}
	}
	for _, act := range r.Actions {
		if act["type"] == "" {
			return Invalid("actions", "missing type")
		}
	}
	return nil
}
