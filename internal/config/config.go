package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

const (
	StorageModeAuto     = "auto"
	StorageModeMemory   = "memory"
	StorageModeSQLite   = "sqlite"
	StorageModePostgres = "postgres"
	StorageModeRedis    = "redis"
	StorageModeMongo    = "mongo"
)

const (
	appDirName    = "vitalis"
	dbFileName    = "vitalis.db"
	reportsDir    = "reports"
	defaultIssuer = "vitalis"
)

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PresignTTLSeconds int
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

// DiagnosticsSummary returns a summary for logging (no secrets)
func (c S3Config) DiagnosticsSummary() string {
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s presign_ttl=%ds access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		c.PresignTTLSeconds,
		setOrNot(c.AccessKeyID),
		setOrNot(c.SecretAccessKey),
	)
}

type BlobConfig struct {
	Mode     string // local|s3|auto
	LocalDir string
	S3       S3Config
}

type StorageConfig struct {
	Mode string // auto|memory|sqlite|postgres|redis|mongo

	SQLitePath string

	DatabaseURL       string
	DatabaseURLDirect string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI      string
	MongoDatabase string
}

// ResolvedMode picks a concrete backend for STORAGE_MODE=auto:
// postgres if a database URL is set, then redis, then mongo, else the local sqlite file.
func (c StorageConfig) ResolvedMode() string {
	if c.Mode != StorageModeAuto && c.Mode != "" {
		return c.Mode
	}
	switch {
	case c.DatabaseURL != "":
		return StorageModePostgres
	case c.RedisAddr != "":
		return StorageModeRedis
	case c.MongoURI != "":
		return StorageModeMongo
	default:
		return StorageModeSQLite
	}
}

// Config holds the whole application configuration.
type Config struct {
	Env      string // local | staging | production
	Port     int
	LogLevel string
	LogFile  string

	Location *time.Location

	Storage                StorageConfig
	RunMigrationsOnStartup bool

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Device auth
	AuthMode      string // none | token
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int
	PairingCode   string

	// Tracker
	StrictValidation  bool
	AutoRollover      bool
	WaterDefaultAddMl int
	CatalogFile       string

	// Reminders
	RemindersEnabled     bool
	ReminderCheckSeconds int
	NotifierMode         string // local | telegram
	TelegramBotToken     string
	TelegramChatID       int64

	Blob BlobConfig

	MetricsEnabled bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}

	port := envInt("PORT", 8080)

	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	loc := time.Local
	if tz := strings.TrimSpace(os.Getenv("TIME_ZONE")); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			log.Printf("WARNING: invalid TIME_ZONE=%q, fallback to local", tz)
		} else {
			loc = parsed
		}
	}

	// ---------- Storage ----------
	storageMode := strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_MODE")))
	switch storageMode {
	case "":
		storageMode = StorageModeAuto
	case StorageModeAuto, StorageModeMemory, StorageModeSQLite, StorageModePostgres, StorageModeRedis, StorageModeMongo:
	default:
		log.Printf("WARNING: unknown STORAGE_MODE=%q, fallback to %s", storageMode, StorageModeAuto)
		storageMode = StorageModeAuto
	}

	sqlitePath := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if sqlitePath == "" {
		if p, err := DefaultSQLitePath(); err == nil {
			sqlitePath = p
		} else {
			sqlitePath = dbFileName
		}
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))
	if dbURL == "" {
		dbURL = dbDirect
	}

	mongoDB := strings.TrimSpace(os.Getenv("MONGO_DATABASE"))
	if mongoDB == "" {
		mongoDB = appDirName
	}

	storageCfg := StorageConfig{
		Mode:              storageMode,
		SQLitePath:        sqlitePath,
		DatabaseURL:       dbURL,
		DatabaseURLDirect: dbDirect,
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           envInt("REDIS_DB", 0),
		MongoURI:          strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:     mongoDB,
	}

	// ---------- Auth ----------
	authMode := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	if authMode == "" {
		authMode = "none"
	}
	if authMode != "none" && authMode != "token" {
		log.Printf("WARNING: unknown AUTH_MODE=%q, fallback to none", authMode)
		authMode = "none"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "change_me"
	}
	if jwtSecret == "change_me" && env != "local" {
		log.Println("WARNING: JWT_SECRET is set to 'change_me' in non-local environment!")
	}
	jwtIssuer := strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	if jwtIssuer == "" {
		jwtIssuer = defaultIssuer
	}
	// JWT_TTL_MINUTES (default: 43200 = 30 days)
	jwtTTLMinutes := envInt("JWT_TTL_MINUTES", 43200)
	if jwtTTLMinutes <= 0 {
		jwtTTLMinutes = 43200
	}

	// ---------- Tracker ----------
	strict := true
	if raw := strings.TrimSpace(os.Getenv("STRICT_VALIDATION")); raw != "" {
		strict = parseBoolEnv("STRICT_VALIDATION")
	}
	autoRollover := true
	if raw := strings.TrimSpace(os.Getenv("AUTO_ROLLOVER")); raw != "" {
		autoRollover = parseBoolEnv("AUTO_ROLLOVER")
	}
	waterDefaultAdd := envInt("WATER_DEFAULT_ADD_ML", 250)
	if waterDefaultAdd <= 0 {
		waterDefaultAdd = 250
	}

	// ---------- Reminders ----------
	remindersEnabled := true
	if raw := strings.TrimSpace(os.Getenv("REMINDERS_ENABLED")); raw != "" {
		remindersEnabled = parseBoolEnv("REMINDERS_ENABLED")
	}
	reminderCheck := envInt("REMINDER_CHECK_SECONDS", 30)
	if reminderCheck <= 0 {
		reminderCheck = 30
	}
	notifierMode := strings.ToLower(strings.TrimSpace(os.Getenv("NOTIFIER_MODE")))
	if notifierMode == "" {
		notifierMode = "local"
	}
	if notifierMode != "local" && notifierMode != "telegram" {
		log.Printf("WARNING: unknown NOTIFIER_MODE=%q, fallback to local", notifierMode)
		notifierMode = "local"
	}
	telegramChatID, _ := strconv.ParseInt(strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")), 10, 64)

	// ---------- Blob / S3 ----------
	blobMode := parseBlobMode("BLOB_MODE", BlobModeLocal)
	blobDir := strings.TrimSpace(os.Getenv("BLOB_LOCAL_DIR"))
	if blobDir == "" {
		blobDir = filepath.Join(filepath.Dir(sqlitePath), reportsDir)
	}
	s3PresignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}

	metricsEnabled := true
	if raw := strings.TrimSpace(os.Getenv("METRICS_ENABLED")); raw != "" {
		metricsEnabled = parseBoolEnv("METRICS_ENABLED")
	}

	return &Config{
		Env:      env,
		Port:     port,
		LogLevel: logLevel,
		LogFile:  strings.TrimSpace(os.Getenv("LOG_FILE")),
		Location: loc,

		Storage:                storageCfg,
		RunMigrationsOnStartup: parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP"),

		CORSAllowedOrigins:   parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env),
		CORSAllowCredentials: os.Getenv("CORS_ALLOW_CREDENTIALS") == "1",

		RateLimitRPS:   envInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 0),

		AuthMode:      authMode,
		JWTSecret:     jwtSecret,
		JWTIssuer:     jwtIssuer,
		JWTTTLMinutes: jwtTTLMinutes,
		PairingCode:   strings.TrimSpace(os.Getenv("PAIRING_CODE")),

		StrictValidation:  strict,
		AutoRollover:      autoRollover,
		WaterDefaultAddMl: waterDefaultAdd,
		CatalogFile:       strings.TrimSpace(os.Getenv("CATALOG_FILE")),

		RemindersEnabled:     remindersEnabled,
		ReminderCheckSeconds: reminderCheck,
		NotifierMode:         notifierMode,
		TelegramBotToken:     strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TelegramChatID:       telegramChatID,

		Blob: BlobConfig{
			Mode:     blobMode,
			LocalDir: blobDir,
			S3: S3Config{
				Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
				Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
				Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET")),
				AccessKeyID:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
				SecretAccessKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
				PresignTTLSeconds: s3PresignTTL,
			},
		},

		MetricsEnabled: metricsEnabled,
	}
}

// DefaultSQLitePath returns <user config dir>/vitalis/vitalis.db.
func DefaultSQLitePath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, dbFileName), nil
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:5173"}
		}
		return nil
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func parseBlobMode(key string, defaultVal string) string {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if mode == "" {
		return defaultVal
	}
	switch mode {
	case BlobModeLocal, BlobModeS3, BlobModeAuto:
		return mode
	default:
		log.Printf("WARNING: unknown %s=%q, fallback to %s", key, mode, defaultVal)
		return defaultVal
	}
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}
