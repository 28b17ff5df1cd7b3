package value

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/houseagent/houseagent-core/internal/collection"
)

// The reference vocabularies are seeded by migrations and served
// read-only: every mutation returns collection.ErrReadOnly.

// HistoryTypeProvider serves the history_types vocabulary.
type HistoryTypeProvider struct {
	db *sql.DB
}

// NewHistoryTypeProvider creates a read-only history type provider.
func NewHistoryTypeProvider(db *sql.DB) *HistoryTypeProvider {
	return &HistoryTypeProvider{db: db}
}

func (p *HistoryTypeProvider) Load(ctx context.Context) ([]HistoryType, error) {
	const query = `SELECT id, name FROM history_types ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying history types: %w", err)
	}
	defer rows.Close()

	var types []HistoryType
	for rows.Next() {
		var h HistoryType
		if err := rows.Scan(&h.ID, &h.Name); err != nil {
			return nil, fmt.Errorf("scanning history type row: %w", err)
		}
		types = append(types, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history types: %w", err)
	}
	return types, nil
}

func (p *HistoryTypeProvider) Create(_ context.Context, _ collection.Fields) (string, error) {
	return "", collection.ErrReadOnly
}

func (p *HistoryTypeProvider) Update(_ context.Context, _ string, _ collection.Fields) error {
	return collection.ErrReadOnly
}

func (p *HistoryTypeProvider) Delete(_ context.Context, _ string) error {
	return collection.ErrReadOnly
}

// HistoryPeriodProvider serves the history_periods vocabulary.
type HistoryPeriodProvider struct {
	db *sql.DB
}

// NewHistoryPeriodProvider creates a read-only history period provider.
func NewHistoryPeriodProvider(db *sql.DB) *HistoryPeriodProvider {
	return &HistoryPeriodProvider{db: db}
}

func (p *HistoryPeriodProvider) Load(ctx context.Context) ([]HistoryPeriod, error) {
	const query = `SELECT id, name, secs, sysflag FROM history_periods ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying history periods: %w", err)
	}
	defer rows.Close()

	var periods []HistoryPeriod
	for rows.Next() {
		var h HistoryPeriod
		if err := rows.Scan(&h.ID, &h.Name, &h.Secs, &h.Sysflag); err != nil {
			return nil, fmt.Errorf("scanning history period row: %w", err)
		}
		periods = append(periods, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history periods: %w", err)
	}
	return periods, nil
}

func (p *HistoryPeriodProvider) Create(_ context.Context, _ collection.Fields) (string, error) {
	return "", collection.ErrReadOnly
}

func (p *HistoryPeriodProvider) Update(_ context.Context, _ string, _ collection.Fields) error {
	return collection.ErrReadOnly
}

func (p *HistoryPeriodProvider) Delete(_ context.Context, _ string) error {
	return collection.ErrReadOnly
}

// ControlTypeProvider serves the control_types vocabulary.
type ControlTypeProvider struct {
	db *sql.DB
}

// NewControlTypeProvider creates a read-only control type provider.
func NewControlTypeProvider(db *sql.DB) *ControlTypeProvider {
	return &ControlTypeProvider{db: db}
}

func (p *ControlTypeProvider) Load(ctx context.Context) ([]ControlType, error) {
	const query = `SELECT id, name FROM control_types ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying control types: %w", err)
	}
	defer rows.Close()

	var types []ControlType
	for rows.Next() {
		var c ControlType
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning control type row: %w", err)
		}
		types = append(types, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating control types: %w", err)
	}
	return types, nil
}

func (p *ControlTypeProvider) Create(_ context.Context, _ collection.Fields) (string, error) {
	return "", collection.ErrReadOnly
}

func (p *ControlTypeProvider) Update(_ context.Context, _ string, _ collection.Fields) error {
	return collection.ErrReadOnly
}

func (p *ControlTypeProvider) Delete(_ context.Context, _ string) error {
	return collection.ErrReadOnly
}
