package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/houseagent/houseagent-core/internal/infrastructure/logging"
	"github.com/houseagent/houseagent-core/internal/infrastructure/mqtt"
)

// ValueStore is the slice of the value provider the ingest path needs.
type ValueStore interface {
	UpdateCurrent(ctx context.Context, valueID, newValue string, at time.Time) error
}

// SampleRecorder is the slice of the history recorder the ingest path
// needs.
type SampleRecorder interface {
	Record(ctx context.Context, valueID string, value float64, at time.Time) error
}

// valueUpdate is the wire shape of a plugin's value update message.
type valueUpdate struct {
	Value string `json:"value"`
}

// Ingestor applies value updates pushed by plugins: the current value
// table always gets the new value, and numeric values are additionally
// recorded as history samples.
type Ingestor struct {
	values   ValueStore
	recorder SampleRecorder
	log      *logging.Logger
}

// NewIngestor creates a value update ingestor. recorder may be nil when
// history collection is off.
func NewIngestor(values ValueStore, recorder SampleRecorder, log *logging.Logger) *Ingestor {
	return &Ingestor{values: values, recorder: recorder, log: log}
}

// Start subscribes to the wildcard value update topic.
func (i *Ingestor) Start(transport Transport) error {
	topic := mqtt.Topics{}.AllValueUpdates()
	if err := transport.Subscribe(topic, i.handleUpdate); err != nil {
		return fmt.Errorf("subscribing to value updates: %w", err)
	}
	return nil
}

// handleUpdate processes one update message. Message handling runs off
// the request path, so the background context bounds the writes.
func (i *Ingestor) handleUpdate(topic string, payload []byte) error {
	valueID, ok := updateValueID(topic)
	if !ok {
		return fmt.Errorf("malformed value update topic %q", topic)
	}

	var update valueUpdate
	if err := json.Unmarshal(payload, &update); err != nil {
		return fmt.Errorf("decoding value update from %s: %w", topic, err)
	}

	ctx := context.Background()
	now := time.Now()

	if err := i.values.UpdateCurrent(ctx, valueID, update.Value, now); err != nil {
		return fmt.Errorf("applying value update %s: %w", valueID, err)
	}

	if i.recorder != nil {
		if sample, err := strconv.ParseFloat(update.Value, 64); err == nil {
			if err := i.recorder.Record(ctx, valueID, sample, now); err != nil {
				i.log.Warn("recording value sample failed", "value_id", valueID, "error", err)
			}
		}
	}

	i.log.Debug("value update applied", "value_id", valueID, "value", update.Value)
	return nil
}

// updateValueID extracts the value id from an update topic.
func updateValueID(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[3] != "update" {
		return "", false
	}
	return parts[2], true
}
