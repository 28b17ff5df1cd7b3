package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TriggerRow is a raw trigger as stored: its type name plus the
// parameter bag, before any display reconstruction.
type TriggerRow struct {
	EventID int64
	Type    string
	Params  map[string]string
}

// ConditionRow and ActionRow mirror TriggerRow for their tables.
type ConditionRow struct {
	EventID int64
	Type    string
	Params  map[string]string
}

type ActionRow struct {
	EventID int64
	Type    string
	Params  map[string]string
}

// Source is what the reconstructor reads. Repository satisfies it; the
// tests substitute a fake.
type Source interface {
	Events(ctx context.Context) ([]Event, error)
	TriggerRows(ctx context.Context) ([]TriggerRow, error)
	ConditionRows(ctx context.Context) ([]ConditionRow, error)
	ActionRows(ctx context.Context) ([]ActionRow, error)

	ValueInfo(ctx context.Context, valueID int64) (device, name string, err error)
	DeviceName(ctx context.Context, deviceID int64) (string, error)
	ControlTypeName(ctx context.Context, valueID int64) (string, error)
}

// Repository owns all event SQL.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const queryEvents = `
SELECT id, name, enabled
FROM events
ORDER BY id`

func (r *Repository) Events(ctx context.Context) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, queryEvents)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			ev      Event
			enabled int64
		)
		if err := rows.Scan(&ev.ID, &ev.Name, &enabled); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Enabled = enabled != 0
		events = append(events, ev)
	}
	return events, rows.Err()
}

const queryTriggerRows = `
SELECT t.id, t.event_id, tt.name, COALESCE(tp.name, ''), COALESCE(tp.value, '')
FROM triggers t
JOIN trigger_types tt ON tt.id = t.trigger_type_id
LEFT JOIN trigger_parameters tp ON tp.trigger_id = t.id
ORDER BY t.id, tp.id`

func (r *Repository) TriggerRows(ctx context.Context) ([]TriggerRow, error) {
	folded, err := r.foldRows(ctx, queryTriggerRows)
	if err != nil {
		return nil, fmt.Errorf("query triggers: %w", err)
	}
	out := make([]TriggerRow, len(folded))
	for i, f := range folded {
		out[i] = TriggerRow(f)
	}
	return out, nil
}

const queryConditionRows = `
SELECT c.id, c.event_id, ct.name, COALESCE(cp.name, ''), COALESCE(cp.value, '')
FROM conditions c
JOIN condition_types ct ON ct.id = c.condition_type_id
LEFT JOIN condition_parameters cp ON cp.condition_id = c.id
ORDER BY c.id, cp.id`

func (r *Repository) ConditionRows(ctx context.Context) ([]ConditionRow, error) {
	folded, err := r.foldRows(ctx, queryConditionRows)
	if err != nil {
		return nil, fmt.Errorf("query conditions: %w", err)
	}
	out := make([]ConditionRow, len(folded))
	for i, f := range folded {
		out[i] = ConditionRow(f)
	}
	return out, nil
}

const queryActionRows = `
SELECT a.id, a.event_id, at.name, COALESCE(ap.name, ''), COALESCE(ap.value, '')
FROM actions a
JOIN action_types at ON at.id = a.action_type_id
LEFT JOIN action_parameters ap ON ap.action_id = a.id
ORDER BY a.id, ap.id`

func (r *Repository) ActionRows(ctx context.Context) ([]ActionRow, error) {
	folded, err := r.foldRows(ctx, queryActionRows)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	out := make([]ActionRow, len(folded))
	for i, f := range folded {
		out[i] = ActionRow(f)
	}
	return out, nil
}

// foldRows collapses a row-per-parameter result set into one entry per
// owner row with its parameters gathered into a map. The LEFT JOIN
// yields one empty-named parameter for owners with no parameters.
func (r *Repository) foldRows(ctx context.Context, query string) ([]TriggerRow, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		out    []TriggerRow
		lastID int64 = -1
	)
	for rows.Next() {
		var (
			ownerID, eventID      int64
			typeName, pName, pVal string
		)
		if err := rows.Scan(&ownerID, &eventID, &typeName, &pName, &pVal); err != nil {
			return nil, err
		}
		if ownerID != lastID {
			out = append(out, TriggerRow{
				EventID: eventID,
				Type:    typeName,
				Params:  make(map[string]string),
			})
			lastID = ownerID
		}
		if pName != "" {
			out[len(out)-1].Params[pName] = pVal
		}
	}
	return out, rows.Err()
}

const queryValueInfo = `
SELECT d.name, v.name
FROM current_values v
JOIN devices d ON d.id = v.device_id
WHERE v.id = ?`

func (r *Repository) ValueInfo(ctx context.Context, valueID int64) (string, string, error) {
	var device, name string
	err := r.db.QueryRowContext(ctx, queryValueInfo, valueID).Scan(&device, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("query value info: %w", err)
	}
	return device, name, nil
}

const queryDeviceName = `SELECT name FROM devices WHERE id = ?`

func (r *Repository) DeviceName(ctx context.Context, deviceID int64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, queryDeviceName, deviceID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query device name: %w", err)
	}
	return name, nil
}

const queryControlTypeName = `
SELECT ct.name
FROM current_values v
JOIN control_types ct ON ct.id = v.control_type_id
WHERE v.id = ?`

func (r *Repository) ControlTypeName(ctx context.Context, valueID int64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, queryControlTypeName, valueID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query control type: %w", err)
	}
	return name, nil
}

// Save stores a validated request as one event with its typed trigger,
// condition and action rows, atomically.
func (r *Repository) Save(ctx context.Context, req SaveRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	enabled := 0
	if req.Enabled == "yes" {
		enabled = 1
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO events (name, enabled) VALUES (?, ?)`, req.Name, enabled)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	eventID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("event id: %w", err)
	}

	if err := insertOwned(ctx, tx, ownedInsert{
		typeTable:  "trigger_types",
		ownerTable: "triggers",
		ownerFK:    "trigger_type_id",
		paramTable: "trigger_parameters",
		paramFK:    "trigger_id",
		field:      "trigger",
	}, eventID, req.Trigger); err != nil {
		return 0, err
	}
	for _, cond := range req.Conditions {
		if err := insertOwned(ctx, tx, ownedInsert{
			typeTable:  "condition_types",
			ownerTable: "conditions",
			ownerFK:    "condition_type_id",
			paramTable: "condition_parameters",
			paramFK:    "condition_id",
			field:      "conditions",
		}, eventID, cond); err != nil {
			return 0, err
		}
	}
	for _, act := range req.Actions {
		if err := insertOwned(ctx, tx, ownedInsert{
			typeTable:  "action_types",
			ownerTable: "actions",
			ownerFK:    "action_type_id",
			paramTable: "action_parameters",
			paramFK:    "action_id",
			field:      "actions",
		}, eventID, act); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save: %w", err)
	}
	return eventID, nil
}

type ownedInsert struct {
	typeTable  string
	ownerTable string
	ownerFK    string
	paramTable string
	paramFK    string
	field      string
}

// insertOwned inserts one typed row plus its parameters. Every key in
// the bag other than "type" becomes a parameter row.
func insertOwned(ctx context.Context, tx *sql.Tx, ins ownedInsert, eventID int64, bag map[string]string) error {
	typeName := bag["type"]

	var typeID int64
	err := tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE name = ?`, ins.typeTable),
		typeName).Scan(&typeID)
	if errors.Is(err, sql.ErrNoRows) {
		return Invalid(ins.field, fmt.Sprintf("unknown type %q", typeName))
	}
	if err != nil {
		return fmt.Errorf("lookup %s: %w", ins.typeTable, err)
	}

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s, event_id) VALUES (?, ?)`, ins.ownerTable, ins.ownerFK),
		typeID, eventID)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", ins.ownerTable, err)
	}
	ownerID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%s id: %w", ins.ownerTable, err)
	}

	for name, value := range bag {
		if name == "type" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (%s, name, value) VALUES (?, ?, ?)`, ins.paramTable, ins.paramFK),
			ownerID, name, value); err != nil {
			return fmt.Errorf("insert into %s: %w", ins.paramTable, err)
		}
	}
	return nil
}

// Delete removes an event; the schema cascades to its trigger,
// condition and action rows and their parameters.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
