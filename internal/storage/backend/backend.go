package backend

import (
	"context"
	"fmt"

	appcfg "github.com/fdg312/vitalis/internal/config"
	"github.com/fdg312/vitalis/internal/dbmigrate"
	"github.com/fdg312/vitalis/internal/storage"
	"github.com/fdg312/vitalis/internal/storage/memory"
	"github.com/fdg312/vitalis/internal/storage/mongo"
	"github.com/fdg312/vitalis/internal/storage/postgres"
	"github.com/fdg312/vitalis/internal/storage/redis"
	"github.com/fdg312/vitalis/internal/storage/sqlite"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Open builds the KV backend selected by STORAGE_MODE and returns it with the resolved mode.
func Open(ctx context.Context, cfg appcfg.StorageConfig, runMigrations bool, logger Logger) (storage.KV, string, error) {
	mode := cfg.ResolvedMode()

	switch mode {
	case appcfg.StorageModeMemory:
		logf(logger, "INFO storage: mode=memory (state is lost on exit)")
		return memory.New(), mode, nil

	case appcfg.StorageModeSQLite:
		kv, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, "", fmt.Errorf("sqlite storage: %w", err)
		}
		logf(logger, "INFO storage: mode=sqlite path=%s", cfg.SQLitePath)
		return kv, mode, nil

	case appcfg.StorageModePostgres:
		if cfg.DatabaseURL == "" {
			return nil, "", fmt.Errorf("STORAGE_MODE=postgres requires DATABASE_URL")
		}
		if runMigrations {
			dbURL, source, err := dbmigrate.SelectDatabaseURL(cfg, false)
			if err != nil {
				return nil, "", err
			}
			logf(logger, "INFO storage: running migrations source=%s", source)
			if err := dbmigrate.Run("up", dbURL); err != nil {
				return nil, "", fmt.Errorf("migrations: %w", err)
			}
		}
		kv, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("postgres storage: %w", err)
		}
		logf(logger, "INFO storage: mode=postgres")
		return kv, mode, nil

	case appcfg.StorageModeRedis:
		if cfg.RedisAddr == "" {
			return nil, "", fmt.Errorf("STORAGE_MODE=redis requires REDIS_ADDR")
		}
		kv, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, "", fmt.Errorf("redis storage: %w", err)
		}
		logf(logger, "INFO storage: mode=redis addr=%s db=%d", cfg.RedisAddr, cfg.RedisDB)
		return kv, mode, nil

	case appcfg.StorageModeMongo:
		if cfg.MongoURI == "" {
			return nil, "", fmt.Errorf("STORAGE_MODE=mongo requires MONGO_URI")
		}
		kv, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, "", fmt.Errorf("mongo storage: %w", err)
		}
		logf(logger, "INFO storage: mode=mongo database=%s", cfg.MongoDatabase)
		return kv, mode, nil

	default:
		return nil, "", fmt.Errorf("unsupported storage mode: %s", mode)
	}
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
