package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/ybulut/liblend/internal/store"
)

func migrateCmd() *cobra.Command {
	var fromPath, toDSN string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy all data from a SQLite database into a PostgreSQL database",
		Long: `Copies members, books, loans and users from the SQLite file into the
PostgreSQL database, preserving row ids so loan references stay intact.
The target schema is created if missing, the copy runs in one transaction,
and the id sequences are advanced past the migrated rows.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := store.Open(store.Config{Backend: store.BackendSQLite, Path: fromPath})
			if err != nil {
				return fmt.Errorf("open source: %w", err)
			}
			defer src.Close()

			dst, err := store.Open(store.Config{Backend: store.BackendPostgres, DSN: toDSN})
			if err != nil {
				return fmt.Errorf("open target: %w", err)
			}
			defer dst.Close()

			if err := store.Bootstrap(dst); err != nil {
				return fmt.Errorf("bootstrap target: %w", err)
			}

			return copyAll(src, dst)
		},
	}

	cmd.Flags().StringVar(&fromPath, "from", "./liblend.db", "source SQLite database file")
	cmd.Flags().StringVar(&toDSN, "to", "", "target PostgreSQL DSN")
	cmd.MarkFlagRequired("to")
	return cmd
}

func copyAll(src, dst *sqlx.DB) error {
	tx, err := dst.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Parents before children so the foreign keys resolve.
	counts := map[string]int{}

	n, err := copyRows(src, tx,
		`SELECT id, name, email, phone FROM members ORDER BY id`,
		`INSERT INTO members (id, name, email, phone) VALUES ($1, $2, $3, $4)`, 4)
	if err != nil {
		return fmt.Errorf("copy members: %w", err)
	}
	counts["members"] = n

	n, err = copyRows(src, tx,
		`SELECT id, title, author, isbn, year FROM books ORDER BY id`,
		`INSERT INTO books (id, title, author, isbn, year) VALUES ($1, $2, $3, $4, $5)`, 5)
	if err != nil {
		return fmt.Errorf("copy books: %w", err)
	}
	counts["books"] = n

	n, err = copyRows(src, tx,
		`SELECT id, book_id, member_id, loan_date, due_date, return_date FROM loans ORDER BY id`,
		`INSERT INTO loans (id, book_id, member_id, loan_date, due_date, return_date) VALUES ($1, $2, $3, $4, $5, $6)`, 6)
	if err != nil {
		return fmt.Errorf("copy loans: %w", err)
	}
	counts["loans"] = n

	n, err = copyRows(src, tx,
		`SELECT id, username, password_hash, is_admin FROM users ORDER BY id`,
		`INSERT INTO users (id, username, password_hash, is_admin) VALUES ($1, $2, $3, $4)`, 4)
	if err != nil {
		return fmt.Errorf("copy users: %w", err)
	}
	counts["users"] = n

	for _, table := range []string{"members", "books", "loans", "users"} {
		query := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1)) FROM %s`,
			table, table,
		)
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("advance %s sequence: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for _, table := range []string{"members", "books", "loans", "users"} {
		fmt.Printf("%s: %d row(s)\n", table, counts[table])
	}
	return nil
}

// copyRows streams every row of the source query into the target insert.
// Values pass through as raw driver values, so NULLs survive the trip.
func copyRows(src *sqlx.DB, tx *sqlx.Tx, selectQuery, insertQuery string, columns int) (int, error) {
	rows, err := src.Query(selectQuery)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	copied := 0
	for rows.Next() {
		values := make([]any, columns)
		dest := make([]any, columns)
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(insertQuery, values...); err != nil {
			return 0, err
		}
		copied++
	}

	return copied, rows.Err()
}
