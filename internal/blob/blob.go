package blob

import (
	"context"
	"errors"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	// ErrPresignUnsupported — хранилище не умеет выдавать прямые ссылки, файл отдаёт API.
	ErrPresignUnsupported = errors.New("presigned urls are not supported by this store")
)

// Store — хранилище архивов отчётов (локальная папка или S3)
type Store interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	PresignGet(ctx context.Context, key string, ttlSeconds int) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
