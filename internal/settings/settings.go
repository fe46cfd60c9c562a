// Package settings persists user preferences in a small SQLite database.
package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Setting keys.
const (
	KeyIdleTimeout     = "idle_timeout"
	KeyDefaultDuration = "default_duration"
)

// Defaults applied when a key is missing or unparsable.
const (
	DefaultIdleTimeout     = 5 * time.Second
	DefaultSessionDuration = 25 * time.Minute
)

// Setting is a raw key/value row.
type Setting struct {
	Key   string
	Value string
}

// Preferences are the typed values the application reads.
type Preferences struct {
	IdleTimeout     time.Duration
	DefaultDuration time.Duration
}

// Defaults returns the built-in preferences.
func Defaults() Preferences {
	return Preferences{
		IdleTimeout:     DefaultIdleTimeout,
		DefaultDuration: DefaultSessionDuration,
	}
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at dbPath and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory store for testing.
func OpenMemory() (*Store, error) {
	return Open(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= currentVersion {
		return nil
	}

	const ddl = `
	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('idle_timeout',     '5'),
		('default_duration', '1500');
	`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func (s *Store) All() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.Key, &st.Value); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Preferences reads the typed preferences. Missing or invalid values fall
// back to their defaults.
func (s *Store) Preferences() (Preferences, error) {
	p := Defaults()
	idle, err := s.seconds(KeyIdleTimeout)
	if err != nil {
		return p, err
	}
	if idle > 0 {
		p.IdleTimeout = idle
	}
	dur, err := s.seconds(KeyDefaultDuration)
	if err != nil {
		return p, err
	}
	if dur > 0 {
		p.DefaultDuration = dur
	}
	return p, nil
}

// SavePreferences writes p, rejecting non-positive durations.
func (s *Store) SavePreferences(p Preferences) error {
	if p.IdleTimeout < time.Second {
		return fmt.Errorf("idle timeout must be at least 1s, got %v", p.IdleTimeout)
	}
	if p.DefaultDuration < time.Second {
		return fmt.Errorf("default duration must be at least 1s, got %v", p.DefaultDuration)
	}
	if err := s.Set(KeyIdleTimeout, strconv.Itoa(int(p.IdleTimeout/time.Second))); err != nil {
		return err
	}
	return s.Set(KeyDefaultDuration, strconv.Itoa(int(p.DefaultDuration/time.Second)))
}

func (s *Store) seconds(key string) (time.Duration, error) {
	v, err := s.Get(key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, nil
	}
	return time.Duration(n) * time.Second, nil
}
