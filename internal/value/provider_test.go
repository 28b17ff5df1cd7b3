package value

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/houseagent/houseagent-core/internal/collection"
	"github.com/houseagent/houseagent-core/internal/infrastructure/database"
	_ "github.com/houseagent/houseagent-core/migrations"
)

// testFixture seeds a plugin, a device and one value, returning the
// value id.
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

	res, err := db.ExecContext(ctx,
		"INSERT INTO plugins (name, authcode) VALUES ('zwave', 'code-1')")
	if err != nil {
		t.Fatalf("inserting plugin: %v", err)
	}
	pluginID, _ := res.LastInsertId()

	res, err = db.ExecContext(ctx,
		"INSERT INTO devices (name, address, plugin_id) VALUES ('Thermostat', '5', ?)",
		pluginID)
	if err != nil {
		t.Fatalf("inserting device: %v", err)
	}
	deviceID, _ := res.LastInsertId()

	res, err = db.ExecContext(ctx,
		"INSERT INTO current_values (name, value, device_id) VALUES ('Temperature', '20.5', ?)",
		deviceID)
	if err != nil {
		t.Fatalf("inserting value: %v", err)
	}
	valueID, _ := res.LastInsertId()

	return db, valueID
}

func fields(pairs ...string) collection.Fields {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return collection.FromForm(v)
}

func TestLoadResolvesNames(t *testing.T) {
	db, _ := testFixture(t)
	p := NewProvider(db.DB)

	values, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(values) != 1 {
		t.Fatalf("Load() returned %d values, want 1", len(values))
	}

	v := values[0]
	if v.Device != "Thermostat" || v.DeviceAddress != "5" {
		t.Errorf("device = %q address = %q", v.Device, v.DeviceAddress)
	}
	if v.Plugin != "zwave" {
		t.Errorf("plugin = %q, want zwave", v.Plugin)
	}
	if v.HistoryType != nil || v.ControlType != nil {
		t.Error("unassigned reference fields must be null")
	}
}

func TestCreateReadOnly(t *testing.T) {
	db, _ := testFixture(t)
	p := NewProvider(db.DB)

	_, err := p.Create(context.Background(), fields("name", "x"))
	if !errors.Is(err, collection.ErrReadOnly) {
		t.Errorf("Create() error = %v, want ErrReadOnly", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	db, valueID := testFixture(t)
	p := NewProvider(db.DB)
	ctx := context.Background()

	err := p.Update(ctx, fmt.Sprint(valueID), fields(
		"label", "Living room temp",
		"history_type", "2",
		"history_period", "1",
		"control_type", "3",
	))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	values, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	v := values[0]
	if v.Label == nil || *v.Label != "Living room temp" {
		t.Errorf("label = %v", v.Label)
	}
	if v.ControlType == nil || *v.ControlType != 3 {
		t.Errorf("control_type = %v, want 3", v.ControlType)
	}
	if v.HistoryType == nil || *v.HistoryType != "Average" {
		t.Errorf("history_type = %v, want Average", v.HistoryType)
	}
}

func TestUpdateRequiresAllFields(t *testing.T) {
	db, valueID := testFixture(t)
	p := NewProvider(db.DB)

	err := p.Update(context.Background(), fmt.Sprint(valueID), fields("label", "x"))
	if !errors.Is(err, collection.ErrInvalid) {
		t.Errorf("Update() error = %v, want ErrInvalid", err)
	}
}

func TestLookupInfo(t *testing.T) {
	db, valueID := testFixture(t)
	p := NewProvider(db.DB)
	ctx := context.Background()

	info, err := p.LookupInfo(ctx, fmt.Sprint(valueID))
	if err != nil {
		t.Fatalf("LookupInfo() error = %v", err)
	}
	if info.Device != "Thermostat" || info.Name != "Temperature" {
		t.Errorf("LookupInfo() = %+v", info)
	}

	if _, err := p.LookupInfo(ctx, "99"); !errors.Is(err, collection.ErrNotFound) {
		t.Errorf("missing value error = %v, want ErrNotFound", err)
	}
}

func TestCurrentAndUpdateCurrent(t *testing.T) {
	db, valueID := testFixture(t)
	p := NewProvider(db.DB)
	ctx := context.Background()
	id := fmt.Sprint(valueID)

	current, err := p.Current(ctx, id)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if current != "20.5" {
		t.Errorf("Current() = %q, want 20.5", current)
	}

	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	if err := p.UpdateCurrent(ctx, id, "21.0", at); err != nil {
		t.Fatalf("UpdateCurrent() error = %v", err)
	}

	values, _ := p.Load(ctx)
	if values[0].Value != "21.0" {
		t.Errorf("value = %q after update, want 21.0", values[0].Value)
	}
	if values[0].Lastupdate == nil || *values[0].Lastupdate != "2026-03-14 09:26:53" {
		t.Errorf("lastupdate = %v", values[0].Lastupdate)
	}
}

func TestControlTypeName(t *testing.T) {
	db, valueID := testFixture(t)
	p := NewProvider(db.DB)
	ctx := context.Background()
	id := fmt.Sprint(valueID)

	// Unassigned control type behaves like a missing row.
	if _, err := p.ControlTypeName(ctx, id); !errors.Is(err, collection.ErrNotFound) {
		t.Errorf("unassigned control type error = %v, want ErrNotFound", err)
	}

	if _, err := db.ExecContext(ctx,
		"UPDATE current_values SET control_type_id = (SELECT id FROM control_types WHERE name = ?) WHERE id = ?",
		ControlTypeOnOff, valueID); err != nil {
		t.Fatalf("assigning control type: %v", err)
	}

	name, err := p.ControlTypeName(ctx, id)
	if err != nil {
		t.Fatalf("ControlTypeName() error = %v", err)
	}
	if name != ControlTypeOnOff {
		t.Errorf("ControlTypeName() = %q", name)
	}
}

func TestByDevice(t *testing.T) {
	db, _ := testFixture(t)
	p := NewProvider(db.DB)

	values, err := p.ByDevice(context.Background(), "1")
	if err != nil {
		t.Fatalf("ByDevice() error = %v", err)
	}
	if len(values) != 1 || values[0].Name != "Temperature" {
		t.Errorf("ByDevice() = %+v", values)
	}
}

func TestActionLabels(t *testing.T) {
	tests := []struct {
		controlType string
		want        map[string]string
	}{
		{ControlTypeOnOff, map[string]string{"1": "Power on", "0": "Power off"}},
		{ControlTypeDimmer, map[string]string{"0": "Set dim level"}},
		{ControlTypeThermostat, map[string]string{"0": "Set thermostat setpoint"}},
		{"CONTROL_TYPE_BOGUS", map[string]string{"0": "No actions available for this device"}},
	}
	for _, tt := range tests {
		got := ActionLabels(tt.controlType)
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %v", tt.controlType, got)
			continue
		}
		for k, v := range tt.want {
			if got[k] != v {
				t.Errorf("%s[%s] = %q, want %q", tt.controlType, k, got[k], v)
			}
		}
	}
}

func TestReferenceProvidersReadOnly(t *testing.T) {
	db, _ := testFixture(t)
	ctx := context.Background()

	ht := NewHistoryTypeProvider(db.DB)
	types, err := ht.Load(ctx)
	if err != nil {
		t.Fatalf("history types Load() error = %v", err)
	}
	if len(types) == 0 {
		t.Error("no seeded history types")
	}
	if _, err := ht.Create(ctx, fields("name", "x")); !errors.Is(err, collection.ErrReadOnly) {
		t.Errorf("Create() error = %v, want ErrReadOnly", err)
	}

	hp := NewHistoryPeriodProvider(db.DB)
	periods, err := hp.Load(ctx)
	if err != nil {
		t.Fatalf("history periods Load() error = %v", err)
	}
	if len(periods) == 0 || periods[0].Secs == 0 {
		t.Errorf("seeded periods = %+v", periods)
	}

	ct := NewControlTypeProvider(db.DB)
	if err := ct.Delete(ctx, "1"); !errors.Is(err, collection.ErrReadOnly) {
		t.Errorf("Delete() error = %v, want ErrReadOnly", err)
	}
}
