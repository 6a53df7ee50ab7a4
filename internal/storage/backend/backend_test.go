package backend

import (
	"bytes"
	"context"
	"log"
	"path/filepath"
	"strings"
	"testing"

	appcfg "github.com/fdg312/vitalis/internal/config"
	"github.com/fdg312/vitalis/internal/storage/memory"
	"github.com/fdg312/vitalis/internal/storage/sqlite"
)

func TestOpenMemory(t *testing.T) {
	var buf bytes.Buffer
	kv, mode, err := Open(context.Background(), appcfg.StorageConfig{Mode: appcfg.StorageModeMemory}, false, log.New(&buf, "", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer kv.Close()

	if mode != appcfg.StorageModeMemory {
		t.Fatalf("expected mode=memory, got %s", mode)
	}
	if _, ok := kv.(*memory.MemoryStorage); !ok {
		t.Fatalf("expected *memory.MemoryStorage, got %T", kv)
	}
	if !strings.Contains(buf.String(), "mode=memory") {
		t.Fatalf("expected memory mode log, got: %s", buf.String())
	}
}

func TestOpenAutoFallsBackToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vitalis.db")
	kv, mode, err := Open(context.Background(), appcfg.StorageConfig{
		Mode:       appcfg.StorageModeAuto,
		SQLitePath: path,
	}, false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer kv.Close()

	if mode != appcfg.StorageModeSQLite {
		t.Fatalf("expected mode=sqlite, got %s", mode)
	}
	if _, ok := kv.(*sqlite.SQLiteStorage); !ok {
		t.Fatalf("expected *sqlite.SQLiteStorage, got %T", kv)
	}
}

func TestOpenRequiresConnectionSettings(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want string
	}{
		{"postgres", appcfg.StorageModePostgres, "DATABASE_URL"},
		{"redis", appcfg.StorageModeRedis, "REDIS_ADDR"},
		{"mongo", appcfg.StorageModeMongo, "MONGO_URI"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, mode, err := Open(context.Background(), appcfg.StorageConfig{Mode: tt.mode}, false, nil)
			if err == nil {
				t.Fatal("expected error for missing connection settings")
			}
			if kv != nil || mode != "" {
				t.Fatalf("expected nil store and empty mode, got %T %q", kv, mode)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}
