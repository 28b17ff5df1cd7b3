package value

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/houseagent/houseagent-core/internal/collection"
)

// lastupdateLayout is the timestamp format stored in the lastupdate
// column, chosen for readability in UIs.
const lastupdateLayout = "2006-01-02 15:04:05"

// Info is the device/value name pair the event engine resolves ids
// against.
type Info struct {
	Device string
	Name   string
}

// LookupInfo returns the device and value names for a value id.
func (p *Provider) LookupInfo(ctx context.Context, valueID string) (Info, error) {
	const query = `SELECT d.name, v.name
		FROM current_values v
		JOIN devices d ON v.device_id = d.id
		WHERE v.id = ?`

	var info Info
	err := p.db.QueryRowContext(ctx, query, valueID).Scan(&info.Device, &info.Name)
	if err == sql.ErrNoRows {
		return info, collection.ErrNotFound
	}
	if err != nil {
		return info, fmt.Errorf("querying value info: %w", err)
	}
	return info, nil
}

// Current returns a value's current value string.
func (p *Provider) Current(ctx context.Context, valueID string) (string, error) {
	const query = `SELECT value FROM current_values WHERE id = ?`

	var current sql.NullString
	err := p.db.QueryRowContext(ctx, query, valueID).Scan(&current)
	if err == sql.ErrNoRows {
		return "", collection.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying current value: %w", err)
	}
	return current.String, nil
}

// ControlTypeName returns the control type name for a value id, or
// ErrNotFound when the value has no control type assigned.
func (p *Provider) ControlTypeName(ctx context.Context, valueID string) (string, error) {
	const query = `SELECT ct.name
		FROM current_values v
		JOIN control_types ct ON v.control_type_id = ct.id
		WHERE v.id = ?`

	var name string
	err := p.db.QueryRowContext(ctx, query, valueID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", collection.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying control type name: %w", err)
	}
	return name, nil
}

// IDName is an id/name pair for selection lists.
type IDName struct {
	ID   int64
	Name string
}

// ByDevice returns the id/name pairs of a device's values.
func (p *Provider) ByDevice(ctx context.Context, deviceID string) ([]IDName, error) {
	const query = `SELECT id, name FROM current_values WHERE device_id = ? ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query, deviceID)
	if err != nil {
		return nil, fmt.Errorf("querying values by device: %w", err)
	}
	defer rows.Close()

	var out []IDName
	for rows.Next() {
		var v IDName
		if err := rows.Scan(&v.ID, &v.Name); err != nil {
			return nil, fmt.Errorf("scanning value row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating values: %w", err)
	}
	return out, nil
}

// UpdateCurrent stores a value update pushed by a plugin, stamping
// lastupdate with the arrival time.
func (p *Provider) UpdateCurrent(ctx context.Context, valueID, newValue string, at time.Time) error {
	const query = `UPDATE current_values SET value = ?, lastupdate = ? WHERE id = ?`

	result, err := p.db.ExecContext(ctx, query,
		newValue, at.UTC().Format(lastupdateLayout), valueID)
	if err != nil {
		return fmt.Errorf("updating current value %s: %w", valueID, err)
	}
	return requireRow(result, collection.ErrNotFound)
}
