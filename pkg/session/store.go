// Package session holds the client-side authentication token and the
// offline note cache. The token is an opaque bearer credential; the client
// tracks no expiry and learns of invalidation only through server
// rejection.
package session

import (
	"sync"
	"time"

	"github.com/gophertribe/notesync/pkg/notes"
)

// Store is the durable holder of the session token. Clear is idempotent.
type Store interface {
	Token() (string, bool)
	SetToken(token string) error
	Clear() error
}

// CacheStore additionally persists the last fetched note collection so the
// client can render it without a network round trip.
type CacheStore interface {
	Store
	CacheNotes(list []notes.Note) error
	CachedNotes() ([]notes.Note, time.Time, error)
}

// MemoryStore keeps everything in process memory. Used in tests and for
// ephemeral runs where nothing should outlive the process.
type MemoryStore struct {
	mu       sync.Mutex
	token    string
	notes    []notes.Note
	cachedAt time.Time
}

var _ CacheStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Token returns the stored token and whether one is present.
func (s *MemoryStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// SetToken replaces the stored token.
func (s *MemoryStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear drops the token and the cached collection.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.notes = nil
	s.cachedAt = time.Time{}
	return nil
}

// CacheNotes replaces the cached collection.
func (s *MemoryStore) CacheNotes(list []notes.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append([]notes.Note(nil), list...)
	s.cachedAt = time.Now()
	return nil
}

// CachedNotes returns a copy of the cached collection and when it was taken.
func (s *MemoryStore) CachedNotes() ([]notes.Note, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notes.Note(nil), s.notes...), s.cachedAt, nil
}
