package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fdg312/vitalis/internal/clock"
	"github.com/fdg312/vitalis/internal/config"
)

func TestOpenSQLitePersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Storage:          config.StorageConfig{Mode: config.StorageModeSQLite, SQLitePath: filepath.Join(t.TempDir(), "vitalis.db")},
		StrictValidation: true,
		AutoRollover:     true,
		Location:         time.UTC,
	}
	clk := clock.NewFixed(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	a, err := Open(ctx, cfg, Options{Clock: clk})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if a.StorageMode != config.StorageModeSQLite {
		t.Fatalf("expected sqlite, got %s", a.StorageMode)
	}
	if _, err := a.Tracker.AddWater(ctx, 500); err != nil {
		t.Fatalf("add water: %v", err)
	}
	if len(a.Reminders.List()) != 4 {
		t.Fatalf("expected default reminders")
	}
	a.Close()

	b, err := Open(ctx, cfg, Options{Clock: clk})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	if _, s := b.Tracker.Snapshot(ctx); s.Water != 500 {
		t.Fatalf("expected 500 ml after restart, got %d", s.Water)
	}
}

func TestOpenWithCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := "exercises:\n  - key: rowing\n    name: Rowing\n    calories_per_minute: 9\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	cfg := &config.Config{
		Storage:     config.StorageConfig{Mode: config.StorageModeMemory},
		CatalogFile: path,
		Location:    time.UTC,
	}
	a, err := Open(context.Background(), cfg, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	kind, err := a.Catalog.Exercise("rowing")
	if err != nil || kind.CaloriesPerMinute != 9 {
		t.Fatalf("expected rowing 9 kcal/min, got %+v err=%v", kind, err)
	}
	if len(a.Catalog.Foods) != 11 {
		t.Fatalf("expected built-in foods kept, got %d", len(a.Catalog.Foods))
	}
}

func TestOpenMissingCatalogFile(t *testing.T) {
	cfg := &config.Config{
		Storage:     config.StorageConfig{Mode: config.StorageModeMemory},
		CatalogFile: filepath.Join(t.TempDir(), "missing.yaml"),
	}
	if _, err := Open(context.Background(), cfg, Options{}); err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}
