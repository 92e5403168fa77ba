package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

type Config struct {
	Path        string
	BusyTimeout time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	id          TEXT PRIMARY KEY,
	source_path TEXT NOT NULL,
	mean_conf   REAL NOT NULL DEFAULT 0,
	token_count INTEGER NOT NULL DEFAULT 0,
	ingested_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS extract_jobs (
	id            TEXT PRIMARY KEY,
	page_id       TEXT NOT NULL REFERENCES pages(id),
	status        TEXT NOT NULL,
	started_at    TIMESTAMP NOT NULL,
	finished_at   TIMESTAMP,
	error_message TEXT
);
CREATE TABLE IF NOT EXISTS page_fields (
	page_id     TEXT NOT NULL REFERENCES pages(id),
	position    INTEGER NOT NULL,
	label       TEXT NOT NULL,
	value       TEXT NOT NULL,
	first_name  TEXT,
	middle_name TEXT,
	last_name   TEXT,
	PRIMARY KEY (page_id, position)
);
`

// Open opens (creating if necessary) the embedded store and applies the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening store", "path", cfg.Path)

	dsn := cfg.Path
	if cfg.BusyTimeout > 0 {
		dsn = fmt.Sprintf("%s?_pragma=busy_timeout(%d)", cfg.Path, cfg.BusyTimeout.Milliseconds())
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error("store ping failed", "error", err)
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		logger.Error("schema migration failed", "error", err)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("store ready")
	return db, nil
}

// Close closes the store gracefully.
func Close(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close store", "error", err)
		return
	}
	logger.Info("store closed")
}
