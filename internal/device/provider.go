package device

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/houseagent/houseagent-core/internal/collection"
)

// Provider is the SQLite persistence strategy for devices.
type Provider struct {
	db *sql.DB
}

// NewProvider creates a SQLite-backed device provider.
func NewProvider(db *sql.DB) *Provider {
	return &Provider{db: db}
}

// Load returns all devices with plugin and location names resolved.
func (p *Provider) Load(ctx context.Context) ([]Device, error) {
	const query = `SELECT d.id, d.name, d.address, pl.name, l.name
		FROM devices d
		JOIN plugins pl ON d.plugin_id = pl.id
		LEFT JOIN locations l ON d.location_id = l.id
		ORDER BY d.id`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		var d Device
		var location sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &d.Address, &d.Plugin, &location); err != nil {
			return nil, fmt.Errorf("scanning device row: %w", err)
		}
		if location.Valid {
			d.Location = &location.String
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}

// Create inserts a new device. Name, address and plugin are required;
// location is optional and defaults to unassigned.
func (p *Provider) Create(ctx context.Context, fields collection.Fields) (string, error) {
	args, err := deviceArgs(fields)
	if err != nil {
		return "", err
	}

	const query = `INSERT INTO devices (name, address, plugin_id, location_id)
		VALUES (?, ?, ?, ?)`
	result, err := p.db.ExecContext(ctx, query,
		args.name, args.address, args.pluginID, args.location)
	if err != nil {
		return "", fmt.Errorf("inserting device: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("reading new device id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Update replaces a device's name, address and plugin. The location
// field is tri-state: omitted keeps the current assignment, empty
// clears it.
func (p *Provider) Update(ctx context.Context, id string, fields collection.Fields) error {
	args, err := deviceArgs(fields)
	if err != nil {
		return err
	}

	if !args.locationSet {
		const query = `UPDATE devices SET name = ?, address = ?, plugin_id = ?
			WHERE id = ?`
		result, err := p.db.ExecContext(ctx, query,
			args.name, args.address, args.pluginID, id)
		if err != nil {
			return fmt.Errorf("updating device %s: %w", id, err)
		}
		return requireRow(result, collection.ErrNotFound)
	}

	const query = `UPDATE devices SET name = ?, address = ?, plugin_id = ?, location_id = ?
		WHERE id = ?`
	result, err := p.db.ExecContext(ctx, query,
		args.name, args.address, args.pluginID, args.location, id)
	if err != nil {
		return fmt.Errorf("updating device %s: %w", id, err)
	}
	return requireRow(result, collection.ErrNotFound)
}

// Delete removes a device and, through the schema's cascade, its values.
func (p *Provider) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM devices WHERE id = ?`
	result, err := p.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting device %s: %w", id, err)
	}
	return requireRow(result, collection.ErrNotFound)
}

type deviceFields struct {
	name     string
	address  string
	pluginID int64

	// location is NULL on an explicit clear; locationSet distinguishes
	// a present field from an absent one.
	location    sql.NullInt64
	locationSet bool
}

func deviceArgs(fields collection.Fields) (deviceFields, error) {
	var args deviceFields
	var err error

	if args.name, err = fields.Require("name"); err != nil {
		return args, err
	}
	if args.address, err = fields.Require("address"); err != nil {
		return args, err
	}
	if args.pluginID, err = requireID(fields, "plugin"); err != nil {
		return args, err
	}
	if args.location, args.locationSet, err = locationArg(fields); err != nil {
		return args, err
	}
	return args, nil
}

// locationArg converts the location form field to a nullable id. The
// second result reports whether the field was present at all: an empty
// value is an explicit clear, an absent one is not.
func locationArg(fields collection.Fields) (sql.NullInt64, bool, error) {
	v, ok := fields.Get("location")
	if !ok {
		return sql.NullInt64{}, false, nil
	}
	if v == "" {
		return sql.NullInt64{}, true, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return sql.NullInt64{}, true, collection.Invalid("location", "must be a location id")
	}
	return sql.NullInt64{Int64: id, Valid: true}, true, nil
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
