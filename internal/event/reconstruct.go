package event

import (
	"context"
	"strconv"

	"github.com/houseagent/houseagent-core/internal/infrastructure/logging"
)

// Reconstructor turns stored parameter bags back into the display
// shapes the events page consumes. Lookups that fail degrade to an
// "unknown" label rather than breaking the page.
type Reconstructor struct {
	src Source
	log *logging.Logger
}

func NewReconstructor(src Source, log *logging.Logger) *Reconstructor {
	if log == nil {
		log = logging.Default()
	}
	return &Reconstructor{src: src, log: log}
}

// View loads and reconstructs everything in one pass.
func (r *Reconstructor) View(ctx context.Context) (*View, error) {
	events, err := r.src.Events(ctx)
	if err != nil {
		return nil, err
	}
	triggerRows, err := r.src.TriggerRows(ctx)
	if err != nil {
		return nil, err
	}
	conditionRows, err := r.src.ConditionRows(ctx)
	if err != nil {
		return nil, err
	}
	actionRows, err := r.src.ActionRows(ctx)
	if err != nil {
		return nil, err
	}

	view := &View{
		Events:     events,
		Triggers:   make([]Trigger, 0, len(triggerRows)),
		Conditions: make([]Condition, 0, len(conditionRows)),
		Actions:    make([]Action, 0, len(actionRows)),
	}
	for _, row := range triggerRows {
		view.Triggers = append(view.Triggers, r.trigger(ctx, row))
	}
	for _, row := range conditionRows {
		view.Conditions = append(view.Conditions, r.condition(ctx, row))
	}
	for _, row := range actionRows {
		view.Actions = append(view.Actions, r.action(ctx, row))
	}
	return view, nil
}

func (r *Reconstructor) trigger(ctx context.Context, row TriggerRow) Trigger {
	t := Trigger{EventID: row.EventID, Type: row.Type}
	switch row.Type {
	case TriggerTypeTimed:
		t.Cron = RenderCron(row.Params["cron"])
	case TriggerTypeValueChange:
		t.CurrentValueID = row.Params["current_value_id"]
		t.Condition = TriggerPhrase(row.Params["condition"])
		t.ConditionValue = row.Params["condition_value"]
		t.Device, t.Value = r.valueLabels(ctx, t.CurrentValueID)
	}
	return t
}

func (r *Reconstructor) condition(ctx context.Context, row ConditionRow) Condition {
	c := Condition{EventID: row.EventID, Type: row.Type}
	if row.Type == ConditionTypeValue {
		c.CurrentValueID = row.Params["current_values_id"]
		c.Condition = ConditionPhrase(row.Params["condition"])
		c.ConditionValue = row.Params["condition_value"]
		c.Device, c.Value = r.valueLabels(ctx, c.CurrentValueID)
	}
	return c
}

func (r *Reconstructor) action(ctx context.Context, row ActionRow) Action {
	a := Action{EventID: row.EventID, Type: row.Type}
	if row.Type != ActionTypeDevice {
		return a
	}
	a.ControlValue = row.Params["control_value"]
	a.Command = DecodeCommand(row.Params["command"])

	a.Device = unknownLabel
	if deviceID, err := strconv.ParseInt(row.Params["device"], 10, 64); err == nil {
		name, err := r.src.DeviceName(ctx, deviceID)
		if err != nil {
			r.log.Warn("event action device lookup failed",
				"event_id", row.EventID, "device_id", deviceID, "error", err)
		} else {
			a.Device = name
		}
	}

	a.ControlValueName = unknownLabel
	a.ControlType = unknownLabel
	if valueID, err := strconv.ParseInt(a.ControlValue, 10, 64); err == nil {
		if _, name, err := r.src.ValueInfo(ctx, valueID); err == nil {
			a.ControlValueName = name
		} else {
			r.log.Warn("event action value lookup failed",
				"event_id", row.EventID, "value_id", valueID, "error", err)
		}
		if ct, err := r.src.ControlTypeName(ctx, valueID); err == nil {
			a.ControlType = ct
		} else {
			r.log.Warn("event action control type lookup failed",
				"event_id", row.EventID, "value_id", valueID, "error", err)
		}
	}
	return a
}

// valueLabels resolves a stored value id to its device and value names.
func (r *Reconstructor) valueLabels(ctx context.Context, rawID string) (string, string) {
	valueID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return unknownLabel, unknownLabel
	}
	device, name, err := r.src.ValueInfo(ctx, valueID)
	if err != nil {
		r.log.Warn("event value lookup failed", "value_id", valueID, "error", err)
		return unknownLabel, unknownLabel
	}
	return device, name
}
