package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/loykin/sqlrun/internal/common"
	_ "modernc.org/sqlite"
)

// SQLite configuration constants
const (
	busyTimeoutMS    = 5000
	foreignKeysParam = "_fk=1"
)

// Config describes how to reach the SQLite store.
// DSN has the form "file:<path>"; the engine owns the file exclusively
// during initialization.
type Config struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// Path returns the filesystem path portion of the DSN.
func (c Config) Path() string {
	p := strings.TrimPrefix(c.DSN, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return p
}

// Store owns the single database handle used for schema bootstrap,
// migration application and seeding.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates an unconnected store for the given config.
func New(cfg Config) *Store {
	return &Store{cfg: cfg}
}

// Connect ensures the parent directory of the database file exists, opens
// the SQLite handle and verifies connectivity with a ping.
func (s *Store) Connect() error {
	path := s.cfg.Path()
	if path != "" && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := s.cfg.DSN
	if path == ":memory:" || dsn == ":memory:" {
		dsn = ":memory:"
	} else if !strings.Contains(dsn, "?") {
		dsn = fmt.Sprintf("file:%s?_busy_timeout=%d&%s", path, busyTimeoutMS, foreignKeysParam)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	// SQLite allows only one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(10 * time.Minute)

	s.db = db

	logger := common.GetLogger().WithStore("sqlite")
	logger.Debug("SQLite database connection established", "path", path)
	return nil
}

// Reopen closes and re-establishes the connection. Used after the fresh
// bootstrap path so connection-level schema caches are rebuilt.
func (s *Store) Reopen() error {
	if err := s.Close(); err != nil {
		return err
	}
	return s.Connect()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// DB exposes the underlying handle for ledger and seeding queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Exec runs a single statement against the store.
func (s *Store) Exec(query string, args ...any) error {
	_, err := s.db.Exec(query, args...)
	return err
}

// QueryRow runs a single-row query against the store.
func (s *Store) QueryRow(query string, args ...any) *sql.Row {
	return s.db.QueryRow(query, args...)
}

// Query runs a multi-row query against the store.
func (s *Store) Query(query string, args ...any) (*sql.Rows, error) {
	return s.db.Query(query, args...)
}
