package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/vitalis/internal/app"
	"github.com/fdg312/vitalis/internal/blob"
	"github.com/fdg312/vitalis/internal/config"
	"github.com/fdg312/vitalis/internal/httpserver"
	"github.com/fdg312/vitalis/internal/logging"
	"github.com/fdg312/vitalis/internal/reminders"
	"github.com/fdg312/vitalis/internal/reports"
	"github.com/fdg312/vitalis/internal/telemetry"
	"github.com/fdg312/vitalis/internal/tracker"
)

func main() {
	cfg := config.Load()

	closer, err := logging.Setup(logging.Options{File: cfg.LogFile})
	if err != nil {
		log.Fatalf("FATAL logging: %v", err)
	}
	defer closer.Close()

	printStartupBanner(cfg)
	validateProductionConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.Default()

	var metrics *telemetry.Metrics
	opts := app.Options{Logger: logger}
	if cfg.MetricsEnabled {
		metrics = telemetry.New()
		opts.Observer = metrics
	}

	a, err := app.Open(ctx, cfg, opts)
	if err != nil {
		log.Fatalf("FATAL startup: %v", err)
	}
	defer a.Close()

	blobStore, blobMode, err := blob.NewBlobStore(ctx, cfg.Blob, logger)
	if err != nil {
		log.Fatalf("FATAL blob: %v", err)
	}
	log.Printf("INFO blob: mode=%s", blobMode)

	reportService := reports.NewService(a.Tracker, a.KV, blobStore, reports.ServiceOptions{
		Clock:      a.Clock,
		PresignTTL: cfg.Blob.S3.PresignTTLSeconds,
		Logger:     logger,
	})

	if cfg.RemindersEnabled {
		notifier, _ := reminders.NewNotifier(cfg.NotifierMode, cfg.TelegramBotToken, cfg.TelegramChatID, logger)
		scheduler := reminders.NewScheduler(a.Reminders, notifier, a.Clock, reminders.SchedulerOptions{
			Interval: time.Duration(cfg.ReminderCheckSeconds) * time.Second,
			Detail:   reminderDetail(a.Tracker),
			Logger:   logger,
			OnFired: func(r reminders.Reminder, err error) {
				if metrics != nil && err == nil {
					metrics.ReminderFired(string(r.Type))
				}
			},
		})
		go func() {
			if err := scheduler.Run(ctx); err != nil && ctx.Err() == nil {
				log.Printf("WARN reminders: scheduler stopped: %v", err)
			}
		}()
	}

	server := httpserver.New(cfg, httpserver.Deps{
		Tracker:   a.Tracker,
		Reminders: a.Reminders,
		Reports:   reportService,
		Metrics:   metrics,
	})

	if err := server.Start(ctx); err != nil {
		log.Fatalf("FATAL server: %v", err)
	}
	log.Printf("INFO server: stopped")
}

// reminderDetail adds today's progress for the reminder's counter.
func reminderDetail(t *tracker.Tracker) reminders.DetailFunc {
	return func(ctx context.Context, r reminders.Reminder) string {
		d := t.Dashboard(ctx)
		switch r.Type {
		case reminders.TypeWater:
			return fmt.Sprintf("%d / %d ml today", d.Stats.Water, d.Profile.WaterGoal)
		case reminders.TypeSteps:
			return fmt.Sprintf("%d / %d steps today", d.Stats.Steps, d.Profile.StepGoal)
		case reminders.TypeMeal:
			return fmt.Sprintf("%d / %d kcal today", d.Stats.CaloriesConsumed, d.Profile.CalorieGoal)
		default:
			return ""
		}
	}
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// No secrets are ever printed, only masked indicators ("set" / "not set").
func printStartupBanner(cfg *config.Config) {
	log.Println("========== Vitalis API ==========")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)
	log.Printf("  log_level        = %s", cfg.LogLevel)
	log.Printf("  log_file         = %s", nonEmptyOrDash(cfg.LogFile))
	log.Printf("  time_zone        = %s", cfg.Location)

	// ---- Storage ----
	log.Println("---- storage ----")
	log.Printf("  storage_mode     = %s (resolved=%s)", cfg.Storage.Mode, cfg.Storage.ResolvedMode())
	switch cfg.Storage.ResolvedMode() {
	case config.StorageModeSQLite:
		log.Printf("  sqlite_path      = %s", nonEmptyOrDash(cfg.Storage.SQLitePath))
	case config.StorageModePostgres:
		log.Printf("  database_url     = %s", setOrNot(cfg.Storage.DatabaseURL))
		log.Printf("  direct           = %s", setOrNot(cfg.Storage.DatabaseURLDirect))
		log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)
	case config.StorageModeRedis:
		log.Printf("  redis_addr       = %s", nonEmptyOrDash(cfg.Storage.RedisAddr))
		log.Printf("  redis_password   = %s", setOrNot(cfg.Storage.RedisPassword))
	case config.StorageModeMongo:
		log.Printf("  mongo_uri        = %s", setOrNot(cfg.Storage.MongoURI))
		log.Printf("  mongo_database   = %s", nonEmptyOrDash(cfg.Storage.MongoDatabase))
	}

	// ---- Tracker ----
	log.Println("---- tracker ----")
	log.Printf("  strict_validation = %t", cfg.StrictValidation)
	log.Printf("  auto_rollover    = %t", cfg.AutoRollover)
	log.Printf("  water_default_ml = %d", cfg.WaterDefaultAddMl)
	log.Printf("  catalog_file     = %s", nonEmptyOrDash(cfg.CatalogFile))

	// ---- Auth ----
	log.Println("---- auth ----")
	log.Printf("  auth_mode        = %s", cfg.AuthMode)
	if cfg.AuthMode == "token" {
		log.Printf("  jwt_secret       = %s", secretStatus(cfg.JWTSecret, "change_me"))
		log.Printf("  pairing_code     = %s", setOrNot(cfg.PairingCode))
		log.Printf("  jwt_ttl_minutes  = %d", cfg.JWTTTLMinutes)
	}

	// ---- Reminders ----
	log.Println("---- reminders ----")
	log.Printf("  enabled          = %t", cfg.RemindersEnabled)
	if cfg.RemindersEnabled {
		log.Printf("  check_seconds    = %d", cfg.ReminderCheckSeconds)
		log.Printf("  notifier         = %s", cfg.NotifierMode)
		if cfg.NotifierMode == "telegram" {
			log.Printf("  telegram_token   = %s", setOrNot(cfg.TelegramBotToken))
			log.Printf("  telegram_chat_id = %s", setOrNot(fmt.Sprint(cfg.TelegramChatID)))
		}
	}

	// ---- Blob / S3 ----
	log.Println("---- blob ----")
	log.Printf("  blob_mode        = %s", cfg.Blob.Mode)
	if cfg.Blob.Mode != config.BlobModeLocal {
		log.Printf("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	} else {
		log.Printf("  local_dir        = %s", nonEmptyOrDash(cfg.Blob.LocalDir))
	}

	log.Printf("  metrics          = %t", cfg.MetricsEnabled)
	log.Println("=================================")
}

// validateProductionConfig performs fatal checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("FATAL blob: BLOB_MODE is 's3' but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	if cfg.AuthMode == "token" && strings.TrimSpace(cfg.PairingCode) == "" {
		log.Printf("WARN auth: AUTH_MODE=token but PAIRING_CODE is not set, no device can pair")
	}

	if isProd && cfg.AuthMode == "token" && cfg.JWTSecret == "change_me" {
		log.Fatalf("FATAL auth: JWT_SECRET must not be 'change_me' in %s with AUTH_MODE=token", cfg.Env)
	}

	if isProd && cfg.Storage.ResolvedMode() == config.StorageModeMemory {
		log.Fatalf("FATAL storage: STORAGE_MODE=memory is not allowed in %s", cfg.Env)
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" || v == "0" {
		return "not set"
	}
	return "set"
}

func nonEmptyOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return fmt.Sprintf("set (DEFAULT, insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}
