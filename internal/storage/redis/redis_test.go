package redis

import (
	"context"
	"os"
	"testing"

	"github.com/fdg312/vitalis/internal/storage"
)

// Requires a running Redis; set VITALIS_TEST_REDIS_ADDR to enable.
func TestRedisStorageRoundTrip(t *testing.T) {
	addr := os.Getenv("VITALIS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("VITALIS_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	r, err := New(ctx, addr, "", 15)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer r.Close()

	if err := r.Save(ctx, storage.KeyReminders, []byte(`[]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, found, err := r.Load(ctx, storage.KeyReminders)
	if err != nil || !found || string(raw) != `[]` {
		t.Fatalf("unexpected load result: %q found=%v err=%v", raw, found, err)
	}

	if _, found, err := r.Load(ctx, "missing-key"); err != nil || found {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}
}
