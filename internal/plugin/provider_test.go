package plugin

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/houseagent/houseagent-core/internal/collection"
	"github.com/houseagent/houseagent-core/internal/infrastructure/database"
	_ "github.com/houseagent/houseagent-core/migrations"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func fields(pairs ...string) collection.Fields {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return collection.FromForm(v)
}

func TestCreateGeneratesAuthcode(t *testing.T) {
	p := NewProvider(openTestDB(t).DB)
	ctx := context.Background()

	id, err := p.Create(ctx, fields("name", "zwave"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	authcode, err := p.Authcode(ctx, id)
	if err != nil {
		t.Fatalf("Authcode() error = %v", err)
	}
	if _, err := uuid.Parse(authcode); err != nil {
		t.Errorf("authcode %q is not a UUID: %v", authcode, err)
	}
}

func TestAuthcodeSurvivesUpdate(t *testing.T) {
	p := NewProvider(openTestDB(t).DB)
	ctx := context.Background()

	id, _ := p.Create(ctx, fields("name", "zwave"))
	before, _ := p.Authcode(ctx, id)

	if err := p.Update(ctx, id, fields("name", "zwave-renamed")); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	after, _ := p.Authcode(ctx, id)
	if before != after {
		t.Errorf("authcode changed on update: %q -> %q", before, after)
	}
}

func TestLoadResolvesLocation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	res, err := db.ExecContext(ctx, "INSERT INTO locations (name) VALUES ('Attic')")
	if err != nil {
		t.Fatalf("inserting location: %v", err)
	}
	locID, _ := res.LastInsertId()

	p := NewProvider(db.DB)
	if _, err := p.Create(ctx, fields("name", "zigbee", "location", formatID(locID))); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	plugins, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(plugins) != 1 {
		t.Fatalf("Load() returned %d plugins, want 1", len(plugins))
	}
	if plugins[0].Location == nil || *plugins[0].Location != "Attic" {
		t.Errorf("location = %v, want Attic", plugins[0].Location)
	}
	if plugins[0].Status {
		t.Error("freshly loaded plugin reports online")
	}
}

func TestUpdateLocationTriState(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	res, err := db.ExecContext(ctx, "INSERT INTO locations (name) VALUES ('Attic')")
	if err != nil {
		t.Fatalf("inserting location: %v", err)
	}
	locID, _ := res.LastInsertId()

	p := NewProvider(db.DB)
	id, err := p.Create(ctx, fields("name", "zigbee", "location", formatID(locID)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	loadLocation := func() *string {
		t.Helper()
		plugins, err := p.Load(ctx)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		for _, pl := range plugins {
			if pl.ObjectID() == id {
				return pl.Location
			}
		}
		t.Fatalf("plugin %s not found", id)
		return nil
	}

	// No location key at all: the current assignment stays.
	if err := p.Update(ctx, id, fields("name", "zigbee")); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if loc := loadLocation(); loc == nil || *loc != "Attic" {
		t.Errorf("location = %v after update without location field, want Attic", loc)
	}

	// An empty location value is an explicit clear.
	if err := p.Update(ctx, id, fields("name", "zigbee", "location", "")); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if loc := loadLocation(); loc != nil {
		t.Errorf("location = %q after clearing update, want nil", *loc)
	}
}

func TestAuthcodeMissing(t *testing.T) {
	p := NewProvider(openTestDB(t).DB)

	_, err := p.Authcode(context.Background(), "99")
	if !errors.Is(err, collection.ErrNotFound) {
		t.Errorf("Authcode() error = %v, want ErrNotFound", err)
	}
}

type fakeStatus map[string]bool

func (f fakeStatus) Online(authcode string) bool { return f[authcode] }

func TestDecorateStatus(t *testing.T) {
	plugins := []Plugin{
		{ID: 1, Authcode: "aaa"},
		{ID: 2, Authcode: "bbb"},
	}
	DecorateStatus(plugins, fakeStatus{"aaa": true})

	if !plugins[0].Status {
		t.Error("online plugin not decorated")
	}
	if plugins[1].Status {
		t.Error("offline plugin decorated online")
	}

	// Nil source is a no-op.
	DecorateStatus(plugins, nil)
}

func formatID(id int64) string {
	return Plugin{ID: id}.ObjectID()
}
