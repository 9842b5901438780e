package db

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if _, err := database.MigrateUp(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	database, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer database.Close()

	applied, err := database.MigrateUp(ctx)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if applied != len(migrations) {
		t.Fatalf("expected %d migrations applied, got %d", len(migrations), applied)
	}

	applied, err = database.MigrateUp(ctx)
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if applied != 0 {
		t.Fatalf("expected no migrations on second run, got %d", applied)
	}

	version, err := database.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != migrations[len(migrations)-1].version {
		t.Fatalf("unexpected schema version %d", version)
	}
}

func TestOpenFileDatabase(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")

	database, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := database.MigrateUp(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prefs := NewPreferenceRepository(database)
	if err := prefs.Set(ctx, "sound_state", "muted"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.MigrateUp(ctx); err != nil {
		t.Fatalf("migrate after reopen: %v", err)
	}

	value, err := NewPreferenceRepository(reopened).Get(ctx, "sound_state")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != "muted" {
		t.Fatalf("expected persisted value muted, got %q", value)
	}
	if reopened.Path() != filepath.Join(dir, DefaultFileName) {
		t.Fatalf("unexpected path %q", reopened.Path())
	}
}

func TestOpenRequiresDir(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty data dir")
	}
}
