package main

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"
	_ "modernc.org/sqlite"

	"github.com/fdg312/vitalis/internal/config"
	"github.com/fdg312/vitalis/internal/dbmigrate"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: go run ./cmd/migrate [up|status|down]")
	}

	command := os.Args[1]
	switch command {
	case "up", "status", "down":
	default:
		log.Fatalf("unsupported command %q (allowed: up, status, down)", command)
	}

	cfg := config.Load()
	mode := cfg.Storage.ResolvedMode()

	switch mode {
	case config.StorageModePostgres:
		dbURL, source, err := dbmigrate.SelectDatabaseURL(cfg.Storage, false)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("migrate: command=%s dialect=postgres using=%s", command, source)
		if err := dbmigrate.Run(command, dbURL); err != nil {
			log.Fatal(err)
		}

	case config.StorageModeSQLite:
		path := cfg.Storage.SQLitePath
		if path == "" {
			log.Fatal("migrate: SQLITE_PATH is empty and no default path could be resolved")
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			log.Fatalf("open sqlite database: %v", err)
		}
		defer db.Close()
		log.Printf("migrate: command=%s dialect=sqlite path=%s", command, path)
		if err := dbmigrate.Apply(db, dbmigrate.DialectSQLite, command, false); err != nil {
			log.Fatal(err)
		}

	default:
		log.Printf("WARN migrate: storage mode %s has no schema, nothing to do", mode)
		return
	}

	log.Printf("migrate: %s completed successfully", command)
}
