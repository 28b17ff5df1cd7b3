// Package mqtt wraps the paho MQTT client for the coordinator broker.
//
// HouseAgent talks to its plugins over MQTT: each plugin announces itself
// on a retained status topic keyed by its authcode, accepts commands on a
// per-request command topic, answers on the matching reply topic, and
// pushes value updates as they happen. This package provides the
// connection lifecycle (connect, Last Will, auto-reconnect with restored
// subscriptions) and validated publish/subscribe primitives; the
// coordinator package builds the command protocol on top.
package mqtt
