package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/ybulut/liblend/internal/store"
)

var dbCfg store.Config

func main() {
	defaults := store.FromEnv()

	root := &cobra.Command{
		Use:           "libctl",
		Short:         "Administration tool for the liblend library database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&dbCfg.Backend, "db-backend", defaults.Backend, "database backend (sqlite|postgres)")
	root.PersistentFlags().StringVar(&dbCfg.Path, "db-path", defaults.Path, "SQLite database file")
	root.PersistentFlags().StringVar(&dbCfg.DSN, "db-dsn", defaults.DSN, "PostgreSQL DSN")

	root.AddCommand(
		setupCmd(),
		importClassicsCmd(),
		dedupeCmd(),
		migrateCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openDB connects to the configured backend and ensures the schema exists.
func openDB() (*sqlx.DB, error) {
	db, err := store.Open(dbCfg)
	if err != nil {
		return nil, err
	}
	if err := store.Bootstrap(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
