package location

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/houseagent/houseagent-core/internal/collection"
)

// Provider is the SQLite persistence strategy for locations.
type Provider struct {
	db *sql.DB
}

// NewProvider creates a SQLite-backed location provider.
func NewProvider(db *sql.DB) *Provider {
	return &Provider{db: db}
}

// Load returns all locations with their parent's name resolved.
func (p *Provider) Load(ctx context.Context) ([]Location, error) {
	const query = `SELECT l.id, l.name, l.parent, p.name
		FROM locations l
		LEFT JOIN locations p ON l.parent = p.id
		ORDER BY l.id`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var l Location
		var parentID sql.NullInt64
		var parentName sql.NullString
		if err := rows.Scan(&l.ID, &l.Name, &parentID, &parentName); err != nil {
			return nil, fmt.Errorf("scanning location row: %w", err)
		}
		if parentID.Valid {
			l.ParentID = &parentID.Int64
		}
		if parentName.Valid {
			l.Parent = &parentName.String
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locations: %w", err)
	}
	return locations, nil
}

// Create inserts a new location. The parent field is optional; absent or
// empty means top level.
func (p *Provider) Create(ctx context.Context, fields collection.Fields) (string, error) {
	name, err := fields.Require("name")
	if err != nil {
		return "", err
	}
	parent, _, err := parentArg(fields)
	if err != nil {
		return "", err
	}

	const query = `INSERT INTO locations (name, parent) VALUES (?, ?)`
	result, err := p.db.ExecContext(ctx, query, name, parent)
	if err != nil {
		return "", fmt.Errorf("inserting location: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("reading new location id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Update replaces a location's name. The parent field is tri-state: an
// omitted field keeps the current parent, an empty one moves the
// location to the top level.
func (p *Provider) Update(ctx context.Context, id string, fields collection.Fields) error {
	name, err := fields.Require("name")
	if err != nil {
		return err
	}
	parent, present, err := parentArg(fields)
	if err != nil {
		return err
	}

	if !present {
		const query = `UPDATE locations SET name = ? WHERE id = ?`
		result, err := p.db.ExecContext(ctx, query, name, id)
		if err != nil {
			return fmt.Errorf("updating location %s: %w", id, err)
		}
		return requireRow(result, collection.ErrNotFound)
	}

	const query = `UPDATE locations SET name = ?, parent = ? WHERE id = ?`
	result, err := p.db.ExecContext(ctx, query, name, parent, id)
	if err != nil {
		return fmt.Errorf("updating location %s: %w", id, err)
	}
	return requireRow(result, collection.ErrNotFound)
}

// Delete removes a location. Children fall back to the top level via
// the schema's ON DELETE SET NULL.
func (p *Provider) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM locations WHERE id = ?`
	result, err := p.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting location %s: %w", id, err)
	}
	return requireRow(result, collection.ErrNotFound)
}

// parentArg converts the parent form field to a nullable id. The
// second result reports whether the field was present at all: an empty
// value is an explicit clear, an absent one is not.
func parentArg(fields collection.Fields) (sql.NullInt64, bool, error) {
	v, ok := fields.Get("parent")
	if !ok {
		return sql.NullInt64{}, false, nil
	}
	if v == "" {
		return sql.NullInt64{}, true, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return sql.NullInt64{}, true, collection.Invalid("parent", "must be a location id")
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
