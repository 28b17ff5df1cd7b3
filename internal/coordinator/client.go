package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/houseagent/houseagent-core/internal/infrastructure/logging"
	"github.com/houseagent/houseagent-core/internal/infrastructure/mqtt"
)

// AuthcodeLookup resolves a plugin's database id to its authcode. The
// plugin provider satisfies this.
type AuthcodeLookup interface {
	Authcode(ctx context.Context, pluginID string) (string, error)
}

// Client is the coordinator facade: it tracks which plugins are online
// from their retained status messages and sends correlated commands.
//
// Commands carry a request id; the plugin answers on the matching reply
// topic. Waiting is governed entirely by the caller's context: a dead
// plugin surfaces as the caller's deadline, never as an internal hang.
type Client struct {
	transport Transport
	authcodes AuthcodeLookup
	log       *logging.Logger

	mu      sync.RWMutex
	online  map[string]bool        // authcode -> online
	pending map[string]chan string // request id -> reply payload
}

// command is the wire shape of a plugin command.
type command struct {
	RequestID string `json:"request_id"`
	Command   string `json:"command"`
	Address   string `json:"address"`
	Value     string `json:"value"`
	Level     string `json:"level,omitempty"`
	Temp      string `json:"temp,omitempty"`
}

// pluginStatus is the wire shape of a plugin's retained status message.
type pluginStatus struct {
	Status string `json:"status"`
}

// New creates a coordinator client. Call Start to begin tracking plugin
// status.
func New(transport Transport, authcodes AuthcodeLookup, log *logging.Logger) *Client {
	return &Client{
		transport: transport,
		authcodes: authcodes,
		log:       log,
		online:    make(map[string]bool),
		pending:   make(map[string]chan string),
	}
}

// Start subscribes to the plugin status topics. Retained messages mean
// the online set is rebuilt immediately, including after a reconnect.
func (c *Client) Start() error {
	topic := mqtt.Topics{}.AllPluginStatus()
	if err := c.transport.Subscribe(topic, c.handleStatus); err != nil {
		return fmt.Errorf("subscribing to plugin status: %w", err)
	}
	return nil
}

// handleStatus updates the online set from one status message.
func (c *Client) handleStatus(topic string, payload []byte) error {
	authcode, ok := statusAuthcode(topic)
	if !ok {
		return fmt.Errorf("malformed status topic %q", topic)
	}

	var status pluginStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return fmt.Errorf("decoding status from %s: %w", topic, err)
	}

	online := status.Status == "online"
	c.mu.Lock()
	c.online[authcode] = online
	c.mu.Unlock()

	c.log.Debug("plugin status changed", "authcode", authcode, "online", online)
	return nil
}

// statusAuthcode extracts the authcode from a status topic.
func statusAuthcode(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[3] != "status" {
		return "", false
	}
	return parts[2], true
}

// Online reports whether the plugin with the given authcode is online.
// Implements the plugin package's StatusSource.
func (c *Client) Online(authcode string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.online[authcode]
}

// PluginGUID resolves a plugin id to the authcode commands are keyed by.
func (c *Client) PluginGUID(ctx context.Context, pluginID string) (string, error) {
	authcode, err := c.authcodes.Authcode(ctx, pluginID)
	if err != nil {
		return "", fmt.Errorf("%w: plugin %s", ErrUnknownPlugin, pluginID)
	}
	return authcode, nil
}

// SendPowerOn turns a value on.
func (c *Client) SendPowerOn(ctx context.Context, authcode, address, valueName string) (string, error) {
	return c.send(ctx, authcode, command{Command: "poweron", Address: address, Value: valueName})
}

// SendPowerOff turns a value off.
func (c *Client) SendPowerOff(ctx context.Context, authcode, address, valueName string) (string, error) {
	return c.send(ctx, authcode, command{Command: "poweroff", Address: address, Value: valueName})
}

// SendFire triggers a momentary value.
func (c *Client) SendFire(ctx context.Context, authcode, address, valueName string) (string, error) {
	return c.send(ctx, authcode, command{Command: "fire", Address: address, Value: valueName})
}

// SendDim sets a dim level.
func (c *Client) SendDim(ctx context.Context, authcode, address, valueName, level string) (string, error) {
	return c.send(ctx, authcode, command{Command: "dim", Address: address, Value: valueName, Level: level})
}

// SendThermostatSetpoint sets a thermostat target temperature.
func (c *Client) SendThermostatSetpoint(ctx context.Context, authcode, address, valueName, temp string) (string, error) {
	return c.send(ctx, authcode, command{Command: "thermostat_setpoint", Address: address, Value: valueName, Temp: temp})
}

// send publishes one correlated command and waits for its reply.
func (c *Client) send(ctx context.Context, authcode string, cmd command) (string, error) {
	cmd.RequestID = uuid.New().String()

	topics := mqtt.Topics{}
	replyTopic := topics.PluginReply(authcode, cmd.RequestID)
	replyCh := make(chan string, 1)

	c.mu.Lock()
	c.pending[cmd.RequestID] = replyCh
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, cmd.RequestID)
		c.mu.Unlock()
		c.transport.Unsubscribe(replyTopic) //nolint:errcheck // Best effort cleanup
	}()

	requestID := cmd.RequestID
	err := c.transport.Subscribe(replyTopic, func(_ string, payload []byte) error {
		c.mu.RLock()
		ch, ok := c.pending[requestID]
		c.mu.RUnlock()
		if ok {
			select {
			case ch <- string(payload):
			default:
				// A duplicate reply; the first one won.
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("encoding command: %w", err)
	}
	if err := c.transport.Publish(topics.PluginCommand(authcode, cmd.RequestID), payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	select {
	case reply := <-replyCh:
		return reply, nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
}
