package event

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/houseagent/houseagent-core/internal/collection"
	"github.com/houseagent/houseagent-core/internal/infrastructure/database"
	_ "github.com/houseagent/houseagent-core/migrations"
)

func openTestRepo(t *testing.T) *Repository {
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
	return NewRepository(db.DB)
}

func TestSaveAndReload(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	id, err := repo.Save(ctx, SaveRequest{
		Name:    "Evening scene",
		Enabled: "yes",
		Trigger: map[string]string{
			"type": TriggerTypeTimed,
			"cron": "0 19 * * 1,2,3,4,5",
		},
		Conditions: []map[string]string{{
			"type":              ConditionTypeValue,
			"current_values_id": "3",
			"condition":         "lt",
			"condition_value":   "100",
		}},
		Actions: []map[string]string{{
			"type":          ActionTypeDevice,
			"device":        "2",
			"control_value": "3",
			"command":       "1",
		}},
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if id == 0 {
		t.Fatal("Save() returned zero id")
	}

	events, err := repo.Events(ctx)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 1 || events[0].Name != "Evening scene" || !events[0].Enabled {
		t.Fatalf("Events() = %+v, want one enabled Evening scene", events)
	}

	triggers, err := repo.TriggerRows(ctx)
	if err != nil {
		t.Fatalf("TriggerRows() error = %v", err)
	}
	if len(triggers) != 1 {
		t.Fatalf("TriggerRows() returned %d rows, want 1", len(triggers))
	}
	if triggers[0].Type != TriggerTypeTimed {
		t.Errorf("trigger type = %q, want %q", triggers[0].Type, TriggerTypeTimed)
	}
	if triggers[0].Params["cron"] != "0 19 * * 1,2,3,4,5" {
		t.Errorf("trigger cron param = %q", triggers[0].Params["cron"])
	}

	conditions, err := repo.ConditionRows(ctx)
	if err != nil {
		t.Fatalf("ConditionRows() error = %v", err)
	}
	if len(conditions) != 1 || conditions[0].Params["condition"] != "lt" {
		t.Fatalf("ConditionRows() = %+v, want one lt condition", conditions)
	}

	actions, err := repo.ActionRows(ctx)
	if err != nil {
		t.Fatalf("ActionRows() error = %v", err)
	}
	if len(actions) != 1 || actions[0].Params["command"] != "1" {
		t.Fatalf("ActionRows() = %+v, want one command action", actions)
	}
}

func TestSaveValidation(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  SaveRequest
	}{
		{
			name: "missing name",
			req: SaveRequest{
				Enabled: "yes",
				Trigger: map[string]string{"type": TriggerTypeTimed, "cron": "0 8 * * 1"},
			},
		},
		{
			name: "bad enabled flag",
			req: SaveRequest{
				Name:    "X",
				Enabled: "true",
				Trigger: map[string]string{"type": TriggerTypeTimed, "cron": "0 8 * * 1"},
			},
		},
		{
			name: "missing trigger",
			req:  SaveRequest{Name: "X", Enabled: "no"},
		},
		{
			name: "timed trigger with bad cron",
			req: SaveRequest{
				Name:    "X",
				Enabled: "no",
				Trigger: map[string]string{"type": TriggerTypeTimed, "cron": "not cron"},
			},
		},
		{
			name: "unknown trigger type",
			req: SaveRequest{
				Name:    "X",
				Enabled: "no",
				Trigger: map[string]string{"type": "Nonsense trigger"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := repo.Save(ctx, tt.req); !errors.Is(err, collection.ErrInvalid) {
				t.Errorf("Save() error = %v, want ErrInvalid", err)
			}
		})
	}

	events, err := repo.Events(ctx)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("rejected saves left %d events behind", len(events))
	}
}

func TestDeleteCascades(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	id, err := repo.Save(ctx, SaveRequest{
		Name:    "Doomed",
		Enabled: "no",
		Trigger: map[string]string{"type": TriggerTypeTimed, "cron": "0 8 * * 1"},
		Actions: []map[string]string{{
			"type":          ActionTypeDevice,
			"device":        "1",
			"control_value": "1",
			"command":       "0",
		}},
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}

	triggers, err := repo.TriggerRows(ctx)
	if err != nil {
		t.Fatalf("TriggerRows() error = %v", err)
	}
	actions, err := repo.ActionRows(ctx)
	if err != nil {
		t.Fatalf("ActionRows() error = %v", err)
	}
	if len(triggers) != 0 || len(actions) != 0 {
		t.Errorf("delete left %d triggers and %d actions behind", len(triggers), len(actions))
	}
}

func TestRepositoryLookups(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	seed := []string{
		`INSERT INTO plugins (id, name, authcode) VALUES (1, 'zwave', 'abc')`,
		`INSERT INTO devices (id, name, address, plugin_id) VALUES (1, 'Ceiling lamp', '12', 1)`,
		`INSERT INTO current_values (id, name, value, device_id, control_type_id)
		 VALUES (1, 'Power', '0', 1, (SELECT id FROM control_types WHERE name = 'CONTROL_TYPE_ON_OFF'))`,
		`INSERT INTO current_values (id, name, value, device_id) VALUES (2, 'Energy', '13', 1)`,
	}
	for _, stmt := range seed {
		if _, err := repo.db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seed %q: %v", stmt, err)
		}
	}

	device, name, err := repo.ValueInfo(ctx, 1)
	if err != nil {
		t.Fatalf("ValueInfo() error = %v", err)
	}
	if device != "Ceiling lamp" || name != "Power" {
		t.Errorf("ValueInfo() = %q/%q, want Ceiling lamp/Power", device, name)
	}
	if _, _, err := repo.ValueInfo(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("ValueInfo(99) error = %v, want ErrNotFound", err)
	}

	got, err := repo.DeviceName(ctx, 1)
	if err != nil || got != "Ceiling lamp" {
		t.Errorf("DeviceName() = %q, %v", got, err)
	}
	if _, err := repo.DeviceName(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeviceName(99) error = %v, want ErrNotFound", err)
	}

	ct, err := repo.ControlTypeName(ctx, 1)
	if err != nil || ct != "CONTROL_TYPE_ON_OFF" {
		t.Errorf("ControlTypeName() = %q, %v", ct, err)
	}
	if _, err := repo.ControlTypeName(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("ControlTypeName() for unassigned value error = %v, want ErrNotFound", err)
	}
}
