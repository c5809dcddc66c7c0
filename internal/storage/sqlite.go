// Package storage provides SQLite-based persistence for player settings.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultVolume is returned before the player has saved a volume.
const DefaultVolume = 70

const volumeKey = "volume"

// Store manages the SQLite database connection for settings.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Setting returns a stored value and whether it exists.
func (s *Store) Setting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores a value, replacing any previous one.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save setting %s: %w", key, err)
	}
	return nil
}

// Volume returns the saved volume in [0, 100], or DefaultVolume if none
// was saved. A corrupt value also yields DefaultVolume.
func (s *Store) Volume() (int, error) {
	raw, ok, err := s.Setting(volumeKey)
	if err != nil {
		return DefaultVolume, err
	}
	if !ok {
		return DefaultVolume, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultVolume, nil
	}
	return ClampVolume(v), nil
}

// SetVolume saves the volume, clamped to [0, 100]. Returns the stored value.
func (s *Store) SetVolume(v int) (int, error) {
	v = ClampVolume(v)
	if err := s.SetSetting(volumeKey, strconv.Itoa(v)); err != nil {
		return v, err
	}
	return v, nil
}

// ClampVolume restricts a volume to [0, 100].
func ClampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
