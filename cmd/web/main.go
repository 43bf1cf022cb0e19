package main

import (
	"flag"
	"html/template"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/ybulut/liblend/internal/data"
	"github.com/ybulut/liblend/internal/jsonlog"
	"github.com/ybulut/liblend/internal/store"
)

type config struct {
	addr string
	env  string
	db   store.Config
}

type application struct {
	config        config
	logger        *jsonlog.Logger
	models        data.Models
	session       *scs.SessionManager
	templateCache map[string]*template.Template
}

func main() {
	var cfg config
	defaults := store.FromEnv()

	flag.StringVar(&cfg.addr, "addr", ":8096", "HTTP network address")
	flag.StringVar(&cfg.env, "env", "development", "Environment (development|production)")
	flag.StringVar(&cfg.db.Backend, "db-backend", defaults.Backend, "Database backend (sqlite|postgres)")
	flag.StringVar(&cfg.db.Path, "db-path", defaults.Path, "SQLite database file")
	flag.StringVar(&cfg.db.DSN, "db-dsn", defaults.DSN, "PostgreSQL DSN")
	flag.Parse()

	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	db, err := store.Open(cfg.db)
	if err != nil {
		logger.PrintFatal(err)
	}
	defer db.Close()

	if err := store.Bootstrap(db); err != nil {
		logger.PrintFatal(err)
	}

	session := scs.New()
	session.Lifetime = 12 * time.Hour
	switch cfg.db.Backend {
	case store.BackendPostgres:
		session.Store = postgresstore.New(db.DB)
	default:
		session.Store = sqlite3store.New(db.DB)
	}

	templateCache, err := newTemplateCache()
	if err != nil {
		logger.PrintFatal(err)
	}

	app := &application{
		config:        cfg,
		logger:        logger,
		models:        data.NewModels(db),
		session:       session,
		templateCache: templateCache,
	}

	srv := &http.Server{
		Addr:         cfg.addr,
		Handler:      app.session.LoadAndSave(app.authenticate(app.routes())),
		ErrorLog:     log.New(logger, "", 0),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.PrintInfo("starting server", map[string]string{
		"addr":    cfg.addr,
		"env":     cfg.env,
		"backend": cfg.db.Backend,
	})

	err = srv.ListenAndServe()
	logger.PrintFatal(err)
}
