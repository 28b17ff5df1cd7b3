package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// msPerSecond converts stored epoch seconds to the millisecond
// timestamps charting libraries expect.
const msPerSecond = 1000

// Point is one graph sample. It serializes as a [timestamp, value]
// pair, timestamp in epoch milliseconds.
type Point struct {
	TS    int64
	Value float64
}

// MarshalJSON renders the point as a two-element array.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{float64(p.TS), p.Value})
}

// DailySeries carries the four per-day aggregate series for one value.
// Each series has one point per day row, sharing that row's timestamp.
type DailySeries struct {
	Val []Point
	Min []Point
	Avg []Point
	Max []Point
}

// MarshalJSON renders the series as [val, min, avg, max], matching what
// the graph UI consumes.
func (s DailySeries) MarshalJSON() ([]byte, error) {
	return json.Marshal([4][]Point{
		emptyAsList(s.Val),
		emptyAsList(s.Min),
		emptyAsList(s.Avg),
		emptyAsList(s.Max),
	})
}

// emptyAsList keeps empty series as [] rather than null on the wire.
func emptyAsList(points []Point) []Point {
	if points == nil {
		return []Point{}
	}
	return points
}

// Store reads the SQLite history feeds.
type Store struct {
	db *sql.DB
}

// NewStore creates a history store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Latest returns the raw samples for a value, oldest first.
func (s *Store) Latest(ctx context.Context, valueID string) ([]Point, error) {
	const query = `SELECT value, created_at FROM value_history_latest
		WHERE value_id = ? ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, valueID)
	if err != nil {
		return nil, fmt.Errorf("querying latest history: %w", err)
	}
	defer rows.Close()

	points := []Point{}
	for rows.Next() {
		var value float64
		var createdAt int64
		if err := rows.Scan(&value, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		points = append(points, Point{TS: createdAt * msPerSecond, Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history rows: %w", err)
	}
	return points, nil
}

// Daily returns the per-day aggregates for a value, fanned into four
// parallel series. Days with no row are simply absent; nothing is gap
// filled.
func (s *Store) Daily(ctx context.Context, valueID string) (DailySeries, error) {
	const query = `SELECT value, min_value, avg_value, max_value, created_at
		FROM value_history_daily
		WHERE value_id = ? ORDER BY created_at`

	var series DailySeries

	rows, err := s.db.QueryContext(ctx, query, valueID)
	if err != nil {
		return series, fmt.Errorf("querying daily history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var val, minV, avgV, maxV float64
		var createdAt int64
		if err := rows.Scan(&val, &minV, &avgV, &maxV, &createdAt); err != nil {
			return series, fmt.Errorf("scanning daily row: %w", err)
		}
		ts := createdAt * msPerSecond
		series.Val = append(series.Val, Point{TS: ts, Value: val})
		series.Min = append(series.Min, Point{TS: ts, Value: minV})
		series.Avg = append(series.Avg, Point{TS: ts, Value: avgV})
		series.Max = append(series.Max, Point{TS: ts, Value: maxV})
	}
	if err := rows.Err(); err != nil {
		return series, fmt.Errorf("iterating daily rows: %w", err)
	}
	return series, nil
}
