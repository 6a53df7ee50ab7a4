package dbmigrate

import (
	"database/sql"
	"embed"
	"fmt"
	"log"
	"path"
	"sync"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedded embed.FS

// goose держит BaseFS и диалект глобально
var gooseMu sync.Mutex

// MigrationsDir returns the embedded directory for the given goose dialect.
func MigrationsDir(dialect string) (string, error) {
	switch dialect {
	case DialectPostgres:
		return path.Join("migrations", "postgres"), nil
	case DialectSQLite:
		return path.Join("migrations", "sqlite"), nil
	default:
		return "", fmt.Errorf("unsupported migration dialect: %s", dialect)
	}
}

// Apply runs a goose command (up, down, status, version, ...) against an open database.
func Apply(db *sql.DB, dialect, command string, quiet bool) error {
	dir, err := MigrationsDir(dialect)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedded)
	defer goose.SetBaseFS(nil)

	if quiet {
		goose.SetLogger(goose.NopLogger())
	} else {
		goose.SetLogger(log.Default())
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Run(command, db, dir); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}

// Run opens a Postgres connection and applies a goose command to it.
func Run(command string, dbURL string) error {
	if dbURL == "" {
		return fmt.Errorf("database URL is empty")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	return Apply(db, DialectPostgres, command, false)
}
