package mqtt

import (
	"errors"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"plugin status", topics.PluginStatus("abc"), "houseagent/plugins/abc/status"},
		{"all plugin status", topics.AllPluginStatus(), "houseagent/plugins/+/status"},
		{"plugin command", topics.PluginCommand("abc", "req-1"), "houseagent/plugins/abc/commands/req-1"},
		{"plugin reply", topics.PluginReply("abc", "req-1"), "houseagent/plugins/abc/replies/req-1"},
		{"value update", topics.ValueUpdate("42"), "houseagent/values/42/update"},
		{"all value updates", topics.AllValueUpdates(), "houseagent/values/+/update"},
		{"system status", topics.SystemStatus(), "houseagent/system/status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("x"), 0, ErrInvalidTopic},
		{"invalid qos", "houseagent/test", []byte("x"), 3, ErrInvalidQoS},
		{"oversized payload", "houseagent/test", make([]byte, maxPayloadSize+1), 0, ErrPublishFailed},
		{"not connected", "houseagent/test", []byte("x"), 0, ErrNotConnected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}
	noop := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 0, noop); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Subscribe("houseagent/test", 3, noop); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("invalid qos error = %v, want ErrInvalidQoS", err)
	}
	if err := c.Subscribe("houseagent/test", 0, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler error = %v, want ErrSubscribeFailed", err)
	}
	if err := c.Subscribe("houseagent/test", 0, noop); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected error = %v, want ErrNotConnected", err)
	}
	if c.SubscriptionCount() != 0 {
		t.Errorf("failed subscribes must not be tracked, count = %d", c.SubscriptionCount())
	}
}

func TestStatusPayloads(t *testing.T) {
	online := buildOnlinePayload("houseagent-core")
	if !strings.Contains(online, `"status":"online"`) {
		t.Errorf("online payload missing status: %s", online)
	}
	offline := buildOfflinePayload("houseagent-core")
	if !strings.Contains(offline, `"reason":"graceful_shutdown"`) {
		t.Errorf("offline payload missing reason: %s", offline)
	}
}
