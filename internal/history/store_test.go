package history

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/houseagent/houseagent-core/internal/infrastructure/database"
	_ "github.com/houseagent/houseagent-core/migrations"
)

// testFixture seeds a plugin, device and value so history rows have a
// valid parent, and returns the value id.
func testFixture(t *testing.T) (*database.DB, int64) {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	if _, err := db.ExecContext(ctx,
		"INSERT INTO plugins (name, authcode) VALUES ('p', 'c')"); err != nil {
		t.Fatalf("seeding plugin: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO devices (name, address, plugin_id) VALUES ('d', '1', 1)"); err != nil {
		t.Fatalf("seeding device: %v", err)
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO current_values (name, device_id) VALUES ('v', 1)")
	if err != nil {
		t.Fatalf("seeding value: %v", err)
	}
	valueID, _ := res.LastInsertId()
	return db, valueID
}

func TestLatestScalesTimestamps(t *testing.T) {
	db, valueID := testFixture(t)
	ctx := context.Background()

	samples := []struct {
		value float64
		at    int64
	}{
		{20.5, 1000}, {21.0, 2000}, {19.5, 3000},
	}
	for _, s := range samples {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO value_history_latest (value_id, value, created_at) VALUES (?, ?, ?)",
			valueID, s.value, s.at); err != nil {
			t.Fatalf("seeding sample: %v", err)
		}
	}

	points, err := NewStore(db.DB).Latest(ctx, "1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("Latest() returned %d points, want 3", len(points))
	}
	for i, s := range samples {
		if points[i].TS != s.at*1000 {
			t.Errorf("point %d TS = %d, want %d", i, points[i].TS, s.at*1000)
		}
		if points[i].Value != s.value {
			t.Errorf("point %d Value = %v, want %v", i, points[i].Value, s.value)
		}
	}
}

func TestDailyFanOut(t *testing.T) {
	db, valueID := testFixture(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, `INSERT INTO value_history_daily
		(value_id, value, min_value, avg_value, max_value, created_at)
		VALUES (?, 10, 5, 7, 12, 1000)`, valueID); err != nil {
		t.Fatalf("seeding daily row: %v", err)
	}

	series, err := NewStore(db.DB).Daily(ctx, "1")
	if err != nil {
		t.Fatalf("Daily() error = %v", err)
	}

	want := map[string]struct {
		points []Point
		value  float64
	}{
		"val": {series.Val, 10},
		"min": {series.Min, 5},
		"avg": {series.Avg, 7},
		"max": {series.Max, 12},
	}
	for name, w := range want {
		if len(w.points) != 1 {
			t.Fatalf("%s has %d points, want 1", name, len(w.points))
		}
		if w.points[0].Value != w.value {
			t.Errorf("%s value = %v, want %v", name, w.points[0].Value, w.value)
		}
		if w.points[0].TS != 1000*1000 {
			t.Errorf("%s TS = %d, want 1000000", name, w.points[0].TS)
		}
	}
}

func TestJSONShapes(t *testing.T) {
	p := Point{TS: 2000000, Value: 21.5}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal point: %v", err)
	}
	if string(b) != "[2000000,21.5]" {
		t.Errorf("point JSON = %s", b)
	}

	empty := DailySeries{}
	b, err = json.Marshal(empty)
	if err != nil {
		t.Fatalf("Marshal empty series: %v", err)
	}
	if string(b) != "[[],[],[],[]]" {
		t.Errorf("empty series JSON = %s", b)
	}
}

type fakeMirror struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeMirror) WriteValueUpdate(valueID string, _ float64, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, valueID)
}

func TestRecorder(t *testing.T) {
	db, valueID := testFixture(t)
	ctx := context.Background()
	mirror := &fakeMirror{}

	id := strconv.FormatInt(valueID, 10)
	r := NewRecorder(db.DB, mirror)
	at := time.Unix(5000, 0)
	if err := r.Record(ctx, id, 22.5, at); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	points, err := NewStore(db.DB).Latest(ctx, id)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if len(points) != 1 || points[0].Value != 22.5 || points[0].TS != 5000000 {
		t.Errorf("recorded point = %+v", points)
	}
	if len(mirror.calls) != 1 || mirror.calls[0] != id {
		t.Errorf("mirror calls = %v", mirror.calls)
	}

	// Nil mirror must not panic.
	if err := NewRecorder(db.DB, nil).Record(ctx, id, 23.0, at); err != nil {
		t.Fatalf("Record() with nil mirror error = %v", err)
	}
}
