package dbmigrate

import (
	"io/fs"
	"testing"

	"github.com/fdg312/vitalis/internal/config"
)

func TestSelectDatabaseURL_Priority(t *testing.T) {
	cfg := config.StorageConfig{
		DatabaseURLDirect: "postgres://direct",
		DatabaseURL:       "postgres://url",
	}

	dbURL, source, err := SelectDatabaseURL(cfg, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dbURL != "postgres://direct" || source != "DATABASE_URL_DIRECT" {
		t.Fatalf("expected direct URL, got dbURL=%q source=%q", dbURL, source)
	}
}

func TestSelectDatabaseURL_FallbackToDatabaseURL(t *testing.T) {
	cfg := config.StorageConfig{DatabaseURL: "postgres://url"}

	dbURL, source, err := SelectDatabaseURL(cfg, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dbURL != "postgres://url" || source != "DATABASE_URL" {
		t.Fatalf("expected DATABASE_URL, got dbURL=%q source=%q", dbURL, source)
	}
}

func TestSelectDatabaseURL_RequireDirect(t *testing.T) {
	cfg := config.StorageConfig{DatabaseURL: "postgres://url"}

	if _, _, err := SelectDatabaseURL(cfg, true); err == nil {
		t.Fatal("expected error when direct is required but missing")
	}
}

func TestSelectDatabaseURL_NothingConfigured(t *testing.T) {
	if _, _, err := SelectDatabaseURL(config.StorageConfig{}, false); err == nil {
		t.Fatal("expected error when no database URL is set")
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	for _, dialect := range []string{DialectPostgres, DialectSQLite} {
		dir, err := MigrationsDir(dialect)
		if err != nil {
			t.Fatalf("dir for %s: %v", dialect, err)
		}
		entries, err := fs.ReadDir(embedded, dir)
		if err != nil {
			t.Fatalf("read %s: %v", dir, err)
		}
		if len(entries) == 0 {
			t.Fatalf("expected migrations for %s", dialect)
		}
	}

	if _, err := MigrationsDir("oracle"); err == nil {
		t.Fatal("expected error for unsupported dialect")
	}
}
