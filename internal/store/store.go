package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config selects one of the two supported relational backends. Path is the
// database file for the sqlite backend, DSN the connection string for the
// postgres backend.
type Config struct {
	Backend string
	Path    string
	DSN     string
}

// FromEnv returns a Config populated from the DB_TYPE, DB_PATH and DB_DSN
// environment variables, falling back to a local sqlite file.
func FromEnv() Config {
	cfg := Config{
		Backend: os.Getenv("DB_TYPE"),
		Path:    os.Getenv("DB_PATH"),
		DSN:     os.Getenv("DB_DSN"),
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendSQLite
	}
	if cfg.Path == "" {
		cfg.Path = "./liblend.db"
	}
	return cfg
}

// Open connects to the configured backend and verifies the connection.
func Open(cfg Config) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	switch cfg.Backend {
	case BackendSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", cfg.Path)
		db, err = sqlx.Open("sqlite3", dsn)
	case BackendPostgres:
		db, err = sqlx.Open("postgres", cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
