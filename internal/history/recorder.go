package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Mirror receives a copy of every recorded sample. The InfluxDB client
// satisfies this; a nil mirror disables mirroring.
type Mirror interface {
	WriteValueUpdate(valueID string, value float64, at time.Time)
}

// Recorder appends value samples to the latest-history feed and mirrors
// them to a time series database when one is configured.
type Recorder struct {
	db     *sql.DB
	mirror Mirror
}

// NewRecorder creates a recorder. mirror may be nil.
func NewRecorder(db *sql.DB, mirror Mirror) *Recorder {
	return &Recorder{db: db, mirror: mirror}
}

// Record appends one sample. The SQLite append is authoritative; the
// mirror write is fire and forget.
func (r *Recorder) Record(ctx context.Context, valueID string, value float64, at time.Time) error {
	const query = `INSERT INTO value_history_latest (value_id, value, created_at)
		VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, valueID, value, at.Unix()); err != nil {
		return fmt.Errorf("recording sample for value %s: %w", valueID, err)
	}

	if r.mirror != nil {
		r.mirror.WriteValueUpdate(valueID, value, at)
	}
	return nil
}
