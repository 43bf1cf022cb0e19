package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		isbn TEXT UNIQUE,
		year INTEGER
	);`,
	`CREATE TABLE IF NOT EXISTS members (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT UNIQUE,
		phone TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS loans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		member_id INTEGER NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		loan_date DATE NOT NULL,
		due_date DATE NOT NULL,
		return_date DATE
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS loans_one_active
		ON loans(book_id) WHERE return_date IS NULL;`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS books (
		id SERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		author VARCHAR(255) NOT NULL,
		isbn VARCHAR(20) UNIQUE,
		year INTEGER
	);`,
	`CREATE TABLE IF NOT EXISTS members (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE,
		phone VARCHAR(20)
	);`,
	`CREATE TABLE IF NOT EXISTS loans (
		id SERIAL PRIMARY KEY,
		book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		member_id INTEGER NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		loan_date DATE NOT NULL,
		due_date DATE NOT NULL,
		return_date DATE
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS loans_one_active
		ON loans(book_id) WHERE return_date IS NULL;`,
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE
	);`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BYTEA NOT NULL,
		expiry TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`,
}

// Bootstrap creates the schema for the connected backend. Every statement is
// idempotent, so running it against an existing database is safe.
//
// The partial unique index on loans(book_id) is what guarantees that two
// concurrent lend attempts for the same book cannot both commit: the loser
// fails with a uniqueness violation instead of silently double-booking.
func Bootstrap(db *sqlx.DB) error {
	var schema []string
	switch db.DriverName() {
	case "sqlite3":
		schema = sqliteSchema
	case "postgres":
		schema = postgresSchema
	default:
		return fmt.Errorf("unknown driver %q", db.DriverName())
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}

	return tx.Commit()
}
