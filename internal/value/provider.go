package value

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/houseagent/houseagent-core/internal/collection"
)

// Provider is the SQLite persistence strategy for values.
//
// Values are created by plugins pushing updates, never through the API,
// so Create is read-only. Update edits presentation fields only: the
// label and the history/control settings.
type Provider struct {
	db *sql.DB
}

// NewProvider creates a SQLite-backed value provider.
func NewProvider(db *sql.DB) *Provider {
	return &Provider{db: db}
}

// Load returns all values with device, plugin, location and reference
// names resolved.
func (p *Provider) Load(ctx context.Context) ([]Value, error) {
	const query = `SELECT v.id, v.name, v.value, v.lastupdate, v.label,
		v.control_type_id, ht.name, hp.name,
		d.name, d.address, l.name, pl.name, pl.id
		FROM current_values v
		JOIN devices d ON v.device_id = d.id
		JOIN plugins pl ON d.plugin_id = pl.id
		LEFT JOIN locations l ON d.location_id = l.id
		LEFT JOIN history_types ht ON v.history_id = ht.id
		LEFT JOIN history_periods hp ON v.history_period_id = hp.id
		ORDER BY v.id`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying values: %w", err)
	}
	defer rows.Close()

	var values []Value
	for rows.Next() {
		v, err := scanValueRow(rows)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating values: %w", err)
	}
	return values, nil
}

func scanValueRow(rows *sql.Rows) (Value, error) {
	var v Value
	var rawValue, lastupdate, label sql.NullString
	var controlType sql.NullInt64
	var historyType, historyPeriod, location sql.NullString

	err := rows.Scan(
		&v.ID, &v.Name, &rawValue, &lastupdate, &label,
		&controlType, &historyType, &historyPeriod,
		&v.Device, &v.DeviceAddress, &location, &v.Plugin, &v.PluginID,
	)
	if err != nil {
		return v, fmt.Errorf("scanning value row: %w", err)
	}

	v.Value = rawValue.String
	if lastupdate.Valid {
		v.Lastupdate = &lastupdate.String
	}
	if label.Valid {
		v.Label = &label.String
	}
	if controlType.Valid {
		v.ControlType = &controlType.Int64
	}
	if historyType.Valid {
		v.HistoryType = &historyType.String
	}
	if historyPeriod.Valid {
		v.HistoryPeriod = &historyPeriod.String
	}
	if location.Valid {
		v.Location = &location.String
	}
	return v, nil
}

// Create is not supported: values appear when plugins push updates.
func (p *Provider) Create(_ context.Context, _ collection.Fields) (string, error) {
	return "", collection.ErrReadOnly
}

// Update edits a value's label and its history/control settings. All
// four fields are required; reference fields take the vocabulary row id.
func (p *Provider) Update(ctx context.Context, id string, fields collection.Fields) error {
	label, err := fields.Require("label")
	if err != nil {
		return err
	}
	historyType, err := requireID(fields, "history_type")
	if err != nil {
		return err
	}
	historyPeriod, err := requireID(fields, "history_period")
	if err != nil {
		return err
	}
	controlType, err := requireID(fields, "control_type")
	if err != nil {
		return err
	}

	const query = `UPDATE current_values
		SET label = ?, history_id = ?, history_period_id = ?, control_type_id = ?
		WHERE id = ?`
	result, err := p.db.ExecContext(ctx, query,
		label, historyType, historyPeriod, controlType, id)
	if err != nil {
		return fmt.Errorf("updating value %s: %w", id, err)
	}
	return requireRow(result, collection.ErrNotFound)
}

// Delete removes a value and its history rows via the schema's cascade.
func (p *Provider) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM current_values WHERE id = ?`
	result, err := p.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting value %s: %w", id, err)
	}
	return requireRow(result, collection.ErrNotFound)
}

func requireID(fields collection.Fields, name string) (int64, error) {
	v, err := fields.Require(name)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, collection.Invalid(name, "must be a numeric id")
	}
	return id, nil
}

func requireRow(result sql.Result, missing error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}
