// Package syncer owns the in-memory note collection for the current
// session. Every mutation is a single-shot request followed by a full
// re-fetch of the authoritative list; the client never patches the
// collection optimistically, so no merge or rollback logic exists.
package syncer

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gophertribe/notesync/pkg/fault"
	"github.com/gophertribe/notesync/pkg/gateway"
	"github.com/gophertribe/notesync/pkg/notes"
	"github.com/gophertribe/notesync/pkg/session"
)

const (
	msgDeleted    = "Note Deleted Successfully"
	msgUpdated    = "Note Updated Successfully"
	msgAdded      = "Note Added Successfully"
	msgEmptyTitle = "Please enter the title."
	msgEmptyBody  = "Please enter the content."
	msgNotFound   = "Note not found."
	msgUnexpected = "An unexpected error occurred. Please try again."
	msgExpired    = "Your session has expired. Please log in again."
)

// Synchronizer keeps the local collection aligned with the server.
//
// Each list replacement carries the sequence number taken when its request
// was issued; a response whose sequence is older than the last applied one
// is discarded, so rapid successive operations cannot leave a stale list
// on screen even though in-flight requests are never cancelled.
type Synchronizer struct {
	gw     *gateway.Client
	store  session.CacheStore
	notify Notifier
	log    zerolog.Logger

	mu           sync.Mutex
	notes        []notes.Note
	searchActive bool
	seq          uint64
	applied      uint64
}

// New creates a Synchronizer. notify may be nil for callers that render no
// confirmations.
func New(gw *gateway.Client, store session.CacheStore, notify Notifier, log zerolog.Logger) *Synchronizer {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Synchronizer{gw: gw, store: store, notify: notify, log: log}
}

// Notes returns a copy of the current collection, in server order
// (pinned-first then recency is the server's contract, not enforced here).
func (s *Synchronizer) Notes() []notes.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notes.Note(nil), s.notes...)
}

// SearchActive reports whether the collection currently holds filtered
// search results.
func (s *Synchronizer) SearchActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchActive
}

// FetchAll replaces the collection with the server's current list.
func (s *Synchronizer) FetchAll(ctx context.Context) error {
	seq := s.nextSeq()
	list, err := s.fetchList(ctx, "/get-all-notes", nil)
	if err != nil {
		return err
	}
	s.apply(seq, list)
	return nil
}

// Search replaces the collection with server-filtered results and marks
// the search as active. An empty query degrades to FetchAll.
func (s *Synchronizer) Search(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return s.FetchAll(ctx)
	}

	seq := s.nextSeq()
	list, err := s.fetchList(ctx, "/search-notes", url.Values{"query": {query}})
	if err != nil {
		return err
	}
	if s.apply(seq, list) {
		s.mu.Lock()
		s.searchActive = true
		s.mu.Unlock()
	}
	return nil
}

// ClearSearch drops the search flag and restores the unfiltered list.
func (s *Synchronizer) ClearSearch(ctx context.Context) error {
	s.mu.Lock()
	s.searchActive = false
	s.mu.Unlock()
	return s.FetchAll(ctx)
}

type mutationResponse struct {
	Error   bool        `json:"error"`
	Message string      `json:"message"`
	Note    *notes.Note `json:"note"`
}

// Delete removes the note by identifier, then resynchronizes. On failure
// the collection stays exactly as it was before the attempt.
func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	var resp mutationResponse
	if err := s.gw.Delete(ctx, "/delete-note/"+id, &resp); err != nil {
		return s.remoteFailure("delete", err)
	}
	if resp.Error {
		return s.logicalFailure("delete", resp.Message)
	}

	s.notify.Notify(msgDeleted, ToastDelete)
	return s.FetchAll(ctx)
}

// TogglePin flips the pinned flag of the note by identifier, then
// resynchronizes. The negation is computed from the locally rendered copy,
// matching what the user sees.
func (s *Synchronizer) TogglePin(ctx context.Context, id string) error {
	note, ok := s.noteByID(id)
	if !ok {
		return fault.New(fault.Validation, msgNotFound)
	}

	body := map[string]bool{"isPinned": !note.IsPinned}
	var resp mutationResponse
	if err := s.gw.Put(ctx, "/update-note-pinned/"+id, body, &resp); err != nil {
		return s.remoteFailure("pin", err)
	}
	if resp.Error {
		return s.logicalFailure("pin", resp.Message)
	}

	s.notify.Notify(msgUpdated, ToastUpdate)
	return s.FetchAll(ctx)
}

// Save creates a note when id is empty and edits it otherwise, then
// resynchronizes. Title and content must be non-empty; that is the only
// local validation, everything else is the server's call.
func (s *Synchronizer) Save(ctx context.Context, id string, fields notes.Fields) error {
	if strings.TrimSpace(fields.Title) == "" {
		return fault.New(fault.Validation, msgEmptyTitle)
	}
	if strings.TrimSpace(fields.Content) == "" {
		return fault.New(fault.Validation, msgEmptyBody)
	}

	var resp mutationResponse
	var err error
	editing := id != ""
	if editing {
		err = s.gw.Put(ctx, "/edit-note/"+id, fields, &resp)
	} else {
		err = s.gw.Post(ctx, "/add-note", fields, &resp)
	}
	if err != nil {
		return s.remoteFailure("save", err)
	}
	if resp.Error {
		return s.logicalFailure("save", resp.Message)
	}

	if editing {
		s.notify.Notify(msgUpdated, ToastUpdate)
	} else {
		s.notify.Notify(msgAdded, ToastAdd)
	}
	return s.FetchAll(ctx)
}

// LoadCache replaces the collection with the last persisted one, for
// rendering without a network round trip. Returns false when no cache
// exists.
func (s *Synchronizer) LoadCache() (bool, error) {
	if s.store == nil {
		return false, nil
	}
	list, cachedAt, err := s.store.CachedNotes()
	if err != nil {
		return false, err
	}
	if cachedAt.IsZero() {
		return false, nil
	}
	s.mu.Lock()
	s.notes = list
	s.mu.Unlock()
	return true, nil
}

func (s *Synchronizer) noteByID(id string) (notes.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return notes.Note{}, false
}

func (s *Synchronizer) nextSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// apply installs list unless a newer response already landed. Reports
// whether the list was installed.
func (s *Synchronizer) apply(seq uint64, list []notes.Note) bool {
	s.mu.Lock()
	if seq < s.applied {
		s.mu.Unlock()
		s.log.Debug().Uint64("seq", seq).Uint64("applied", s.applied).Msg("discarding stale list response")
		return false
	}
	s.applied = seq
	s.notes = list
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.CacheNotes(list); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist note cache")
		}
	}
	return true
}

func (s *Synchronizer) fetchList(ctx context.Context, path string, query url.Values) ([]notes.Note, error) {
	var resp struct {
		Notes []notes.Note `json:"notes"`
	}
	if err := s.gw.Get(ctx, path, query, &resp); err != nil {
		return nil, s.remoteFailure("list", err)
	}
	return resp.Notes, nil
}

func (s *Synchronizer) remoteFailure(op string, err error) error {
	apiErr, isAPIErr := gateway.AsAPIError(err)
	if isAPIErr && apiErr.Unauthorized() {
		if s.store != nil {
			gateway.HandleAuthFailure(err, s.store)
		}
		s.log.Warn().Str("op", op).Msg("session rejected, cleared stored token")
		return fault.Wrap(fault.Auth, msgExpired, err)
	}

	s.log.Error().Str("op", op).Err(err).Msg("request failed")
	if isAPIErr && apiErr.Message != "" {
		return fault.Wrap(fault.Server, apiErr.Message, err)
	}
	return fault.Wrap(fault.Transport, msgUnexpected, err)
}

func (s *Synchronizer) logicalFailure(op, message string) error {
	if message == "" {
		message = msgUnexpected
	}
	s.log.Error().Str("op", op).Str("message", message).Msg("server reported failure")
	return fault.New(fault.Server, message)
}
