// Package coordinator is the facade over the MQTT side of HouseAgent.
//
// It tracks which plugins are online from their retained status
// messages, sends correlated commands (power, fire, dim, thermostat
// setpoint) and hands each plugin's reply back to the API, and ingests
// value updates into the current value table and the history feeds. The
// fixed action vocabulary lives in the Dispatcher; anything outside it
// is rejected before a single message is published.
package coordinator
