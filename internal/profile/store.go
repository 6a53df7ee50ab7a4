package profile

import (
	"context"
	"errors"
	"sync"

	"github.com/fdg312/vitalis/internal/storage"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Store держит единственный профиль устройства и сохраняет его при каждом изменении.
type Store struct {
	mu      sync.RWMutex
	kv      storage.KV
	current Profile
	logger  Logger
}

// Load reads the persisted profile. Missing or undecodable data falls back to Default();
// only a failing backend is reported as an error.
func Load(ctx context.Context, kv storage.KV, logger Logger) (*Store, error) {
	s := &Store{kv: kv, current: Default(), logger: logger}

	// недостающие поля частичной записи сохраняют значения по умолчанию
	p := Default()
	found, err := storage.LoadJSON(ctx, kv, storage.KeyProfile, &p)
	switch {
	case errors.Is(err, storage.ErrMalformed):
		s.logf("WARN profile: %v, using defaults", err)
		return s, nil
	case err != nil:
		return nil, err
	case !found:
		return s, nil
	}

	if p.Theme == "" {
		p.Theme = ThemeAmethyst
	}
	s.current = p
	return s, nil
}

func (s *Store) Get() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set merges patch into the current profile. The in-memory profile is updated even when
// the returned persistence error is non-nil.
func (s *Store) Set(ctx context.Context, patch Patch) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = patch.Apply(s.current)
	return s.current, storage.SaveJSON(ctx, s.kv, storage.KeyProfile, s.current)
}

func (s *Store) logf(format string, v ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, v...)
}
