package device

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/houseagent/houseagent-core/internal/collection"
	"github.com/houseagent/houseagent-core/internal/infrastructure/database"
	_ "github.com/houseagent/houseagent-core/migrations"
)

// testFixture seeds one location and one plugin and returns their ids.
func testFixture(t *testing.T) (*database.DB, int64, int64) {
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

	res, err := db.ExecContext(ctx, "INSERT INTO locations (name) VALUES ('Hall')")
	if err != nil {
		t.Fatalf("inserting location: %v", err)
	}
	locID, _ := res.LastInsertId()

	res, err = db.ExecContext(ctx,
		"INSERT INTO plugins (name, authcode) VALUES ('zwave', 'code-1')")
	if err != nil {
		t.Fatalf("inserting plugin: %v", err)
	}
	pluginID, _ := res.LastInsertId()

	return db, locID, pluginID
}

func fields(pairs ...string) collection.Fields {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return collection.FromForm(v)
}

func TestCreateAndLoad(t *testing.T) {
	db, locID, pluginID := testFixture(t)
	p := NewProvider(db.DB)
	ctx := context.Background()

	_, err := p.Create(ctx, fields(
		"name", "Ceiling light",
		"address", "3",
		"plugin", fmt.Sprint(pluginID),
		"location", fmt.Sprint(locID),
	))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	devices, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("Load() returned %d devices, want 1", len(devices))
	}

	d := devices[0]
	if d.Plugin != "zwave" {
		t.Errorf("plugin = %q, want zwave", d.Plugin)
	}
	if d.Location == nil || *d.Location != "Hall" {
		t.Errorf("location = %v, want Hall", d.Location)
	}
	if d.Address != "3" {
		t.Errorf("address = %q, want 3", d.Address)
	}
}

func TestCreateRequiresAllFields(t *testing.T) {
	db, locID, pluginID := testFixture(t)
	p := NewProvider(db.DB)
	ctx := context.Background()

	missing := []collection.Fields{
		fields("address", "3", "plugin", fmt.Sprint(pluginID), "location", fmt.Sprint(locID)),
		fields("name", "x", "plugin", fmt.Sprint(pluginID), "location", fmt.Sprint(locID)),
		fields("name", "x", "address", "3", "location", fmt.Sprint(locID)),
	}
	for i, f := range missing {
		if _, err := p.Create(ctx, f); !errors.Is(err, collection.ErrInvalid) {
			t.Errorf("case %d: Create() error = %v, want ErrInvalid", i, err)
		}
	}
}

func TestCreateWithoutLocation(t *testing.T) {
	db, _, pluginID := testFixture(t)
	p := NewProvider(db.DB)
	ctx := context.Background()

	_, err := p.Create(ctx, fields(
		"name", "Sensor", "address", "7",
		"plugin", fmt.Sprint(pluginID),
	))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	devices, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(devices) != 1 || devices[0].Location != nil {
		t.Errorf("devices = %+v, want one unassigned device", devices)
	}
}

func TestUpdateLocationTriState(t *testing.T) {
	db, locID, pluginID := testFixture(t)
	p := NewProvider(db.DB)
	ctx := context.Background()

	id, err := p.Create(ctx, fields(
		"name", "Lamp", "address", "5",
		"plugin", fmt.Sprint(pluginID),
		"location", fmt.Sprint(locID),
	))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	loadLocation := func() *string {
		t.Helper()
		devices, err := p.Load(ctx)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		for _, d := range devices {
			if d.ObjectID() == id {
				return d.Location
			}
		}
		t.Fatalf("device %s not found", id)
		return nil
	}

	// No location key at all: the current assignment stays.
	if err := p.Update(ctx, id, fields(
		"name", "Lamp", "address", "5", "plugin", fmt.Sprint(pluginID),
	)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if loc := loadLocation(); loc == nil || *loc != "Hall" {
		t.Errorf("location = %v after update without location field, want Hall", loc)
	}

	// An empty location value is an explicit clear.
	if err := p.Update(ctx, id, fields(
		"name", "Lamp", "address", "5", "plugin", fmt.Sprint(pluginID),
		"location", "",
	)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if loc := loadLocation(); loc != nil {
		t.Errorf("location = %q after clearing update, want nil", *loc)
	}
}

func TestUpdateMissing(t *testing.T) {
	db, locID, pluginID := testFixture(t)
	p := NewProvider(db.DB)

	err := p.Update(context.Background(), "99", fields(
		"name", "x", "address", "1",
		"plugin", fmt.Sprint(pluginID),
		"location", fmt.Sprint(locID),
	))
	if !errors.Is(err, collection.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteCascadesFromPlugin(t *testing.T) {
	db, locID, pluginID := testFixture(t)
	p := NewProvider(db.DB)
	ctx := context.Background()

	if _, err := p.Create(ctx, fields(
		"name", "Sensor", "address", "7",
		"plugin", fmt.Sprint(pluginID),
		"location", fmt.Sprint(locID),
	)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM plugins WHERE id = ?", pluginID); err != nil {
		t.Fatalf("deleting plugin: %v", err)
	}

	devices, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("devices survived plugin delete: %d", len(devices))
	}
}
