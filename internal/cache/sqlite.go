package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store on a single SQLite file. Single-process,
// single-run usage only; the connection pool is pinned to one connection.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the store at path. ":memory:" works too.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set journal_mode: %w", err)
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS synced (
		assignment_id TEXT PRIMARY KEY,
		synced_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return nil
}

// Get returns the cached value for key, or ok=false on a miss.
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM entries WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return value, true, nil
}

// Put writes value under key, overwriting any previous value. The write is
// a single statement, so it is durable as soon as Put returns.
func (s *SQLiteStore) Put(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO entries (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("cache put %q: %w", key, err)
	}
	return nil
}

// Seen reports whether the assignment was synced on a previous run.
func (s *SQLiteStore) Seen(assignmentID string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM synced WHERE assignment_id = ?", assignmentID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache seen %q: %w", assignmentID, err)
	}
	return true, nil
}

// MarkSeen records the assignment in the synced ledger. Idempotent.
func (s *SQLiteStore) MarkSeen(assignmentID string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO synced (assignment_id) VALUES (?)", assignmentID)
	if err != nil {
		return fmt.Errorf("cache mark seen %q: %w", assignmentID, err)
	}
	return nil
}

// Stats returns row counts per table, for the `cache stats` command.
func (s *SQLiteStore) Stats() (map[string]int, error) {
	stats := make(map[string]int)
	for _, table := range []string{"entries", "synced"} {
		var n int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			return nil, fmt.Errorf("cache stats: %w", err)
		}
		stats[table] = n
	}
	return stats, nil
}

// Clear drops all cached text and the synced ledger.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM synced"); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Path returns the on-disk location of the store.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
