package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gophertribe/notesync/pkg/notes"
)

// SQLiteStore persists the token and note cache in a local SQLite file so
// they survive process restarts within the same client installation.
type SQLiteStore struct {
	db *sql.DB
}

var _ CacheStore = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the store at dbPath.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS note_cache (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL,
		cached_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

// Token returns the stored token and whether one is present.
func (s *SQLiteStore) Token() (string, bool) {
	var token string
	err := s.db.QueryRow(`SELECT token FROM session WHERE id = 1`).Scan(&token)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// SetToken writes the token, replacing any previous one.
func (s *SQLiteStore) SetToken(token string) error {
	_, err := s.db.Exec(
		`INSERT INTO session (id, token, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET token = excluded.token, updated_at = CURRENT_TIMESTAMP`,
		token)
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Clear removes the token and the cached collection. Safe to call when
// nothing is stored.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM note_cache`); err != nil {
		return fmt.Errorf("failed to clear note cache: %w", err)
	}
	return nil
}

// CacheNotes replaces the cached collection with list.
func (s *SQLiteStore) CacheNotes(list []notes.Note) error {
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode note cache: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO note_cache (id, payload, cached_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`,
		string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store note cache: %w", err)
	}
	return nil
}

// CachedNotes returns the last cached collection and when it was taken.
// An empty store yields an empty list and a zero time, not an error.
func (s *SQLiteStore) CachedNotes() ([]notes.Note, time.Time, error) {
	var payload string
	var cachedAt time.Time
	err := s.db.QueryRow(`SELECT payload, cached_at FROM note_cache WHERE id = 1`).Scan(&payload, &cachedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read note cache: %w", err)
	}

	var list []notes.Note
	if err := json.Unmarshal([]byte(payload), &list); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode note cache: %w", err)
	}
	return list, cachedAt, nil
}
