package coordinator

import (
	"context"
	"fmt"
)

// Action names accepted by Dispatch.
const (
	ActionPowerOn            = "poweron"
	ActionPowerOff           = "poweroff"
	ActionFire               = "fire"
	ActionDim                = "dim"
	ActionThermostatSetpoint = "thermostat_setpoint"
)

// Request describes one control action against a value. Level and Temp
// are opaque strings passed through to the plugin untouched.
type Request struct {
	PluginID  string
	Address   string
	ValueName string
	Action    string
	Level     string
	Temp      string
}

// Sender is the command surface Dispatch selects from. Client satisfies
// it; tests use fakes.
type Sender interface {
	PluginGUID(ctx context.Context, pluginID string) (string, error)
	SendPowerOn(ctx context.Context, authcode, address, valueName string) (string, error)
	SendPowerOff(ctx context.Context, authcode, address, valueName string) (string, error)
	SendFire(ctx context.Context, authcode, address, valueName string) (string, error)
	SendDim(ctx context.Context, authcode, address, valueName, level string) (string, error)
	SendThermostatSetpoint(ctx context.Context, authcode, address, valueName, temp string) (string, error)
}

// Dispatcher maps action names onto coordinator commands.
type Dispatcher struct {
	sender Sender
}

// NewDispatcher creates a dispatcher over a command sender.
func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// Dispatch selects exactly one command for the request's action name and
// returns the plugin's reply. Unknown action names fail with
// ErrUnsupportedAction; dim and thermostat_setpoint require their
// parameter.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (string, error) {
	switch req.Action {
	case ActionPowerOn, ActionPowerOff, ActionFire:
		// No parameters beyond the value itself.
	case ActionDim:
		if req.Level == "" {
			return "", fmt.Errorf("%w: dim requires level", ErrMissingParameter)
		}
	case ActionThermostatSetpoint:
		if req.Temp == "" {
			return "", fmt.Errorf("%w: thermostat_setpoint requires temp", ErrMissingParameter)
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAction, req.Action)
	}

	authcode, err := d.sender.PluginGUID(ctx, req.PluginID)
	if err != nil {
		return "", err
	}

	switch req.Action {
	case ActionPowerOn:
		return d.sender.SendPowerOn(ctx, authcode, req.Address, req.ValueName)
	case ActionPowerOff:
		return d.sender.SendPowerOff(ctx, authcode, req.Address, req.ValueName)
	case ActionFire:
		return d.sender.SendFire(ctx, authcode, req.Address, req.ValueName)
	case ActionDim:
		return d.sender.SendDim(ctx, authcode, req.Address, req.ValueName, req.Level)
	default:
		return d.sender.SendThermostatSetpoint(ctx, authcode, req.Address, req.ValueName, req.Temp)
	}
}
