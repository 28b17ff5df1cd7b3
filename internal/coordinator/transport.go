package coordinator

import (
	"github.com/houseagent/houseagent-core/internal/infrastructure/mqtt"
)

// Transport is the messaging surface the coordinator facade needs. The
// MQTT client satisfies it through MQTTTransport; tests use fakes.
type Transport interface {
	Publish(topic string, payload []byte) error
	Subscribe(topic string, handler func(topic string, payload []byte) error) error
	Unsubscribe(topic string) error
}

// MQTTTransport adapts the mqtt client to Transport with a fixed QoS.
type MQTTTransport struct {
	Client *mqtt.Client
	QoS    byte
}

func (t *MQTTTransport) Publish(topic string, payload []byte) error {
	return t.Client.Publish(topic, payload, t.QoS, false)
}

func (t *MQTTTransport) Subscribe(topic string, handler func(topic string, payload []byte) error) error {
	return t.Client.Subscribe(topic, t.QoS, mqtt.MessageHandler(handler))
}

func (t *MQTTTransport) Unsubscribe(topic string) error {
	return t.Client.Unsubscribe(topic)
}
