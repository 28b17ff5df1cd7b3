package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteValueUpdate records one value update pushed by a plugin.
//
// Points land in the value_updates measurement tagged by value id, so a
// dashboard can graph any value without touching the SQLite history
// tables. The write is batched and asynchronous; a disconnected client
// drops the point.
func (c *Client) WriteValueUpdate(valueID string, value float64, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"value_updates",
		map[string]string{
			"value_id": valueID,
		},
		map[string]interface{}{
			"value": value,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point for measurements that do not fit the
// value update helper. Tags should stay low cardinality.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}
