// SPDX-License-Identifier: MIT

// Package sqlite opens SQLite connection pools with the operational PRAGMAs
// every store in this service relies on.
package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Synchronous modes accepted in Config.
const (
	SyncNormal = "NORMAL"
	SyncFull   = "FULL"
)

// Config controls the PRAGMAs and pool sizing of an opened database.
type Config struct {
	BusyTimeout     time.Duration
	Synchronous     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig is a general purpose pool: WAL, NORMAL sync, 25 connections.
func DefaultConfig() Config {
	return Config{
		BusyTimeout:     5 * time.Second,
		Synchronous:     SyncNormal,
		MaxOpenConns:    25,
		MaxIdleConns:    25,
		ConnMaxLifetime: time.Hour,
	}
}

// MovieInfoConfig is the pool used by the movie info store. The table is the
// source of truth for every record, so commits are fully synced. Writes are
// single-row statements; a handful of connections serves concurrent readers
// while writers queue on busy_timeout.
func MovieInfoConfig() Config {
	cfg := DefaultConfig()
	cfg.Synchronous = SyncFull
	cfg.MaxOpenConns = 8
	cfg.MaxIdleConns = 4
	cfg.BusyTimeout = 10 * time.Second
	return cfg
}

// DSN returns the modernc.org/sqlite data source name for path. PRAGMAs are
// carried in the DSN so they apply to every pooled connection.
func DSN(path string, cfg Config) string {
	sync := cfg.Synchronous
	if sync == "" {
		sync = SyncNormal
	}
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	q.Add("_pragma", fmt.Sprintf("synchronous(%s)", sync))
	q.Add("_pragma", "foreign_keys(ON)")
	return "file:" + path + "?" + q.Encode()
}

// Open returns a pinged connection pool for path configured by cfg.
func Open(path string, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(path, cfg))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}
	return db, nil
}
