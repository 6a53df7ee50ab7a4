package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Логические ключи, под которыми хранится состояние устройства.
const (
	KeyProfile       = "vitalis_profile"
	KeyStats         = "vitalis_stats"
	KeyReminders     = "vitalis_reminders"
	KeyReportArchive = "vitalis_reports"
)

var (
	// ErrMalformed оборачивает ошибки разбора сохранённого JSON.
	ErrMalformed = errors.New("malformed persisted value")
	ErrClosed    = errors.New("storage closed")
)

// KV — интерфейс для сохранения JSON-документов по ключу.
type KV interface {
	// Load возвращает сохранённое значение; found=false, если ключа нет
	Load(ctx context.Context, key string) (value []byte, found bool, err error)

	// Save перезаписывает значение по ключу
	Save(ctx context.Context, key string, value []byte) error

	// Close закрывает соединение
	Close() error
}

// LoadJSON decodes the value stored under key into dst.
// A missing key yields found=false and no error; undecodable bytes or a JSON null yield ErrMalformed.
func LoadJSON(ctx context.Context, kv KV, key string, dst any) (bool, error) {
	raw, found, err := kv.Load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !found || len(raw) == 0 {
		return false, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return true, fmt.Errorf("%w: %s: null value", ErrMalformed, key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Save(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
