package memory

import (
	"context"
	"sync"

	"github.com/fdg312/vitalis/internal/storage"
)

// MemoryStorage — in-memory реализация storage.KV
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte
	closed bool

	// FailSaves makes every Save return the given error. Tests only.
	FailSaves error
}

// New создаёт пустое хранилище
func New() *MemoryStorage {
	return &MemoryStorage{values: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false, storage.ErrClosed
	}
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryStorage) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return storage.ErrClosed
	}
	if m.FailSaves != nil {
		return m.FailSaves
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}

func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
