package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

var (
	// dbPool is the singleton database connection pool
	dbPool *sql.DB
	// dbOnce ensures the pool is created only once
	dbOnce sync.Once
	// dbErr stores any error from pool creation
	dbErr error
)

// dbPathFunc is a variable holding the function to get DB path (for testing)
var dbPathFunc = getDefaultDBPath

// getDefaultDBPath returns the default path to the SQLite database
func getDefaultDBPath() (string, error) {
	// Use XDG_DATA_HOME for database storage (XDG Base Directory spec)
	xdgDataHome := os.Getenv("XDG_DATA_HOME")
	if xdgDataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		xdgDataHome = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(xdgDataHome, "pullfeed", "pullfeed.db"), nil
}

// SetPath overrides the database location. It must be called before the
// first GetDB.
func SetPath(path string) {
	if path == "" {
		dbPathFunc = getDefaultDBPath
		return
	}
	dbPathFunc = func() (string, error) { return path, nil }
}

// Path returns the database file location.
func Path() (string, error) {
	return dbPathFunc()
}

const schema = `
CREATE TABLE IF NOT EXISTS statuses (
	id            INTEGER PRIMARY KEY,
	account       TEXT NOT NULL DEFAULT '',
	screen_name   TEXT NOT NULL,
	name          TEXT,
	text          TEXT NOT NULL,
	url           TEXT,
	created_at    TEXT NOT NULL,
	retweet_count INTEGER NOT NULL DEFAULT 0,
	retweeted_by  TEXT,
	in_reply_to   TEXT,
	favorited     INTEGER NOT NULL DEFAULT 0,
	read          INTEGER NOT NULL DEFAULT 0,
	gap           INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_statuses_created_at ON statuses(created_at);

CREATE TABLE IF NOT EXISTS filters (
	kind  TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (kind, value)
);

CREATE TABLE IF NOT EXISTS positions (
	timeline   TEXT PRIMARY KEY,
	status_id  INTEGER NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS refreshes (
	id          TEXT PRIMARY KEY,
	trigger     TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	new_count   INTEGER NOT NULL DEFAULT 0,
	error       TEXT
);
`

// GetDB returns the singleton database connection pool.
// It creates the pool and schema on first call and reuses it afterwards.
func GetDB() (*sql.DB, error) {
	dbOnce.Do(func() {
		dbPath, err := dbPathFunc()
		if err != nil {
			dbErr = fmt.Errorf("failed to get database path: %w", err)
			return
		}

		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			dbErr = fmt.Errorf("failed to create database directory: %w", err)
			return
		}

		// Open connection pool (doesn't actually connect yet)
		pool, err := sql.Open("sqlite3", dbPath)
		if err != nil {
			dbErr = fmt.Errorf("failed to open database: %w", err)
			return
		}

		pool.SetMaxOpenConns(25)
		pool.SetMaxIdleConns(5)
		pool.SetConnMaxLifetime(0) // SQLite is local

		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
			if _, err := pool.Exec(pragma); err != nil {
				dbErr = fmt.Errorf("failed to run %q: %w", pragma, err)
				pool.Close()
				return
			}
		}

		if _, err := pool.Exec(schema); err != nil {
			dbErr = fmt.Errorf("failed to create schema: %w", err)
			pool.Close()
			return
		}

		dbPool = pool
	})

	if dbErr != nil {
		return nil, dbErr
	}

	return dbPool, nil
}

// CloseDB closes the singleton database connection pool.
// This should only be called when the application is shutting down.
func CloseDB() error {
	var err error
	if dbPool != nil {
		err = dbPool.Close()
	}
	dbPool = nil
	dbErr = nil
	// Reset the once so a new pool can be created
	dbOnce = sync.Once{}
	return err
}
