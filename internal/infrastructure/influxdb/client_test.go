package influxdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/houseagent/houseagent-core/internal/infrastructure/config"
)

func TestConnectDisabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestHealthCheckNotConnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

// A disconnected client drops writes instead of panicking on the nil
// write API.
func TestWriteValueUpdateDisconnected(t *testing.T) {
	c := &Client{}
	c.WriteValueUpdate("42", 21.5, time.Now())
	c.WritePoint("custom", nil, map[string]interface{}{"v": 1.0})
}

func TestCloseNilClient(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
