package plugin

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/houseagent/houseagent-core/internal/collection"
)

// Provider is the SQLite persistence strategy for plugins.
type Provider struct {
	db *sql.DB
}

// NewProvider creates a SQLite-backed plugin provider.
func NewProvider(db *sql.DB) *Provider {
	return &Provider{db: db}
}

// Load returns all plugins with their location name resolved. Status is
// left at its zero value; the API decorates it from the coordinator.
func (p *Provider) Load(ctx context.Context) ([]Plugin, error) {
	const query = `SELECT pl.id, pl.name, pl.authcode, l.name
		FROM plugins pl
		LEFT JOIN locations l ON pl.location_id = l.id
		ORDER BY pl.id`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying plugins: %w", err)
	}
	defer rows.Close()

	var plugins []Plugin
	for rows.Next() {
		var pl Plugin
		var location sql.NullString
		if err := rows.Scan(&pl.ID, &pl.Name, &pl.Authcode, &location); err != nil {
			return nil, fmt.Errorf("scanning plugin row: %w", err)
		}
		if location.Valid {
			pl.Location = &location.String
		}
		plugins = append(plugins, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plugins: %w", err)
	}
	return plugins, nil
}

// Create registers a new plugin. The authcode is generated here, never
// taken from the request: a plugin learns its authcode from the operator
// after registration.
func (p *Provider) Create(ctx context.Context, fields collection.Fields) (string, error) {
	name, err := fields.Require("name")
	if err != nil {
		return "", err
	}
	location, _, err := locationArg(fields)
	if err != nil {
		return "", err
	}

	authcode := uuid.New().String()

	const query = `INSERT INTO plugins (name, authcode, location_id) VALUES (?, ?, ?)`
	result, err := p.db.ExecContext(ctx, query, name, authcode, location)
	if err != nil {
		return "", fmt.Errorf("registering plugin: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("reading new plugin id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Update replaces a plugin's name. The authcode is immutable. The
// location field is tri-state: omitted keeps the current assignment,
// empty clears it.
func (p *Provider) Update(ctx context.Context, id string, fields collection.Fields) error {
	name, err := fields.Require("name")
	if err != nil {
		return err
	}
	location, present, err := locationArg(fields)
	if err != nil {
		return err
	}

	if !present {
		const query = `UPDATE plugins SET name = ? WHERE id = ?`
		result, err := p.db.ExecContext(ctx, query, name, id)
		if err != nil {
			return fmt.Errorf("updating plugin %s: %w", id, err)
		}
		return requireRow(result, collection.ErrNotFound)
	}

	const query = `UPDATE plugins SET name = ?, location_id = ? WHERE id = ?`
	result, err := p.db.ExecContext(ctx, query, name, location, id)
	if err != nil {
		return fmt.Errorf("updating plugin %s: %w", id, err)
	}
	return requireRow(result, collection.ErrNotFound)
}

// Delete removes a plugin and, through the schema's cascade, its devices
// and their values.
func (p *Provider) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM plugins WHERE id = ?`
	result, err := p.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting plugin %s: %w", id, err)
	}
	return requireRow(result, collection.ErrNotFound)
}

// Authcode returns the authcode for a plugin id.
func (p *Provider) Authcode(ctx context.Context, id string) (string, error) {
	const query = `SELECT authcode FROM plugins WHERE id = ?`

	var authcode string
	err := p.db.QueryRowContext(ctx, query, id).Scan(&authcode)
	if err == sql.ErrNoRows {
		return "", collection.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying plugin authcode: %w", err)
	}
	return authcode, nil
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
