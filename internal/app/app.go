package app

import (
	"context"
	"fmt"

	"github.com/fdg312/vitalis/internal/catalog"
	"github.com/fdg312/vitalis/internal/clock"
	"github.com/fdg312/vitalis/internal/config"
	"github.com/fdg312/vitalis/internal/reminders"
	"github.com/fdg312/vitalis/internal/storage"
	"github.com/fdg312/vitalis/internal/storage/backend"
	"github.com/fdg312/vitalis/internal/tracker"
)

type Logger interface {
	Printf(format string, v ...any)
}

type Options struct {
	Logger   Logger
	Observer tracker.Observer
	Clock    clock.Clock // nil = системные часы в cfg.Location
}

// App — общее ядро для API и CLI: хранилище, трекер и напоминания.
type App struct {
	Config      *config.Config
	KV          storage.KV
	StorageMode string
	Clock       clock.Clock
	Catalog     catalog.Catalog
	Tracker     *tracker.Tracker
	Reminders   *reminders.Service
}

// Open подключает хранилище из конфига и загружает состояние устройства.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		cat = loaded
		logf(opts.Logger, "INFO catalog: loaded %s exercises=%d foods=%d", cfg.CatalogFile, len(cat.Exercises), len(cat.Foods))
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.System{Location: cfg.Location}
	}

	kv, mode, err := backend.Open(ctx, cfg.Storage, cfg.RunMigrationsOnStartup, opts.Logger)
	if err != nil {
		return nil, err
	}

	tr, err := tracker.Open(ctx, kv, tracker.Options{
		Clock:        clk,
		IDs:          clock.ShortIDs{},
		Catalog:      cat,
		Strict:       cfg.StrictValidation,
		AutoRollover: cfg.AutoRollover,
		Logger:       opts.Logger,
		Observer:     opts.Observer,
	})
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("tracker: %w", err)
	}

	rem, err := reminders.Load(ctx, kv, clock.ShortIDs{}, opts.Logger)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("reminders: %w", err)
	}

	return &App{
		Config:      cfg,
		KV:          kv,
		StorageMode: mode,
		Clock:       clk,
		Catalog:     cat,
		Tracker:     tr,
		Reminders:   rem,
	}, nil
}

func (a *App) Close() error {
	return a.KV.Close()
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
