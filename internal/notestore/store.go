// Package notestore implements the in-memory note collection and its
// persistence contract: every mutation re-serializes the whole collection
// through the configured storage provider.
package notestore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nebulahq/nebula/internal/apperr"
	"github.com/nebulahq/nebula/internal/models"
	"github.com/nebulahq/nebula/internal/storage"
)

// ChangeCallback is invoked after a successful mutation. kind is one of
// "created", "updated", "deleted", "favorited", "active", "reloaded".
// The callback runs with the store lock held and must not call back into
// the Store.
type ChangeCallback func(kind, id string)

// Store holds the ordered note collection. Newest notes come first; at most
// one note is active at a time.
type Store struct {
	mu       sync.Mutex
	provider storage.Provider
	logger   *slog.Logger
	notes    []models.Note
	activeID string
	onChange ChangeCallback
	lastSum  string // checksum of the last blob we wrote or loaded
}

// UpdateRequest names exactly the fields an update may change. Nil fields
// are left untouched; ID, CreatedAt, Tags and IsFavorite are never
// reachable through an update.
type UpdateRequest struct {
	Title   *string
	Content *string
}

// Open loads the persisted collection through the provider. Missing or
// structurally invalid data falls back to the seeded welcome note; corrupt
// data is logged, never surfaced.
func Open(provider storage.Provider, logger *slog.Logger) (*Store, error) {
	s := &Store{provider: provider, logger: logger}

	data, ok, err := provider.Load()
	if err != nil {
		return nil, err
	}

	var notes []models.Note
	if ok {
		if jsonErr := json.Unmarshal(data, &notes); jsonErr != nil {
			logger.Warn("persisted collection corrupt, reseeding",
				slog.String("location", provider.Location()),
				slog.String("error", jsonErr.Error()))
			notes = nil
			ok = false
		}
	}

	if !ok || notes == nil {
		notes = []models.Note{welcomeNote(time.Now().UnixMilli())}
		s.notes = notes
		s.activeID = notes[0].ID
		s.persistLocked()
		return s, nil
	}

	for i := range notes {
		if notes[i].Tags == nil {
			notes[i].Tags = []string{}
		}
	}
	s.notes = notes
	if len(notes) > 0 {
		s.activeID = notes[0].ID
	}
	s.lastSum = blobSum(data)
	return s, nil
}

// OnChange registers the change callback. Call before the store is shared
// across goroutines.
func (s *Store) OnChange(cb ChangeCallback) {
	s.onChange = cb
}

// Create inserts a new empty note at the front of the collection, makes it
// active, and returns it.
func (s *Store) Create() models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	n := models.Note{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      []string{},
	}
	s.notes = append([]models.Note{n}, s.notes...)
	s.activeID = n.ID
	s.persistLocked()
	s.notify("created", n.ID)
	return n.Clone()
}

// Update applies the named field changes to the note with the given id.
// UpdatedAt advances strictly whenever title or content changes.
func (s *Store) Update(id string, req UpdateRequest) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Note{}, apperr.ErrNotFound
	}
	n := &s.notes[i]

	changed := false
	if req.Title != nil && *req.Title != n.Title {
		n.Title = *req.Title
		changed = true
	}
	if req.Content != nil && *req.Content != n.Content {
		n.Content = *req.Content
		changed = true
	}
	if changed {
		// The wall clock may not tick between two mutations; keep
		// UpdatedAt strictly increasing anyway.
		now := time.Now().UnixMilli()
		if now <= n.UpdatedAt {
			now = n.UpdatedAt + 1
		}
		n.UpdatedAt = now
		s.persistLocked()
		s.notify("updated", id)
	}
	return n.Clone(), nil
}

// Delete removes the note. Deleting the active note clears the active id;
// the rest of the collection keeps its order. Confirmation is the caller's
// responsibility.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return apperr.ErrNotFound
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	if s.activeID == id {
		s.activeID = ""
	}
	s.persistLocked()
	s.notify("deleted", id)
	return nil
}

// ToggleFavorite flips the favorite flag and changes nothing else.
func (s *Store) ToggleFavorite(id string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Note{}, apperr.ErrNotFound
	}
	s.notes[i].IsFavorite = !s.notes[i].IsFavorite
	s.persistLocked()
	s.notify("favorited", id)
	return s.notes[i].Clone(), nil
}

// SetActive selects the note open for editing. An empty id clears the
// selection; a non-empty id must reference an existing note.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" && s.indexOf(id) < 0 {
		return apperr.ErrNotFound
	}
	s.activeID = id
	s.notify("active", id)
	return nil
}

// ActiveID returns the id of the active note, if any.
func (s *Store) ActiveID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.activeID != ""
}

// Get returns a copy of the note with the given id.
func (s *Store) Get(id string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Note{}, apperr.ErrNotFound
	}
	return s.notes[i].Clone(), nil
}

// List returns a snapshot of the collection in order.
func (s *Store) List() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.Clone()
	}
	return out
}

// ReloadIfChanged re-reads the persisted blob and replaces the in-memory
// collection when an external writer changed it. Self-writes are detected
// by checksum and skipped. A corrupt external blob keeps the in-memory
// state authoritative.
func (s *Store) ReloadIfChanged() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.provider.Load()
	if err != nil {
		return err
	}
	if !ok || blobSum(data) == s.lastSum {
		return nil
	}

	var notes []models.Note
	if jsonErr := json.Unmarshal(data, &notes); jsonErr != nil {
		s.logger.Warn("external blob corrupt, keeping in-memory collection",
			slog.String("location", s.provider.Location()),
			slog.String("error", jsonErr.Error()))
		return nil
	}
	for i := range notes {
		if notes[i].Tags == nil {
			notes[i].Tags = []string{}
		}
	}

	s.notes = notes
	if s.activeID != "" && s.indexOf(s.activeID) < 0 {
		s.activeID = ""
	}
	s.lastSum = blobSum(data)
	s.logger.Info("collection reloaded from external change",
		slog.Int("notes", len(notes)))
	s.notify("reloaded", "")
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked serializes the whole collection and writes it through the
// provider. Persistence failures are logged and swallowed: memory remains
// the source of truth for the session.
func (s *Store) persistLocked() {
	data, err := json.Marshal(s.notes)
	if err != nil {
		s.logger.Error("serialize collection failed", slog.String("error", err.Error()))
		return
	}
	if err := s.provider.Save(data); err != nil {
		s.logger.Error("persist collection failed",
			slog.String("location", s.provider.Location()),
			slog.String("error", err.Error()))
		return
	}
	s.lastSum = blobSum(data)
}

func (s *Store) notify(kind, id string) {
	if s.onChange != nil {
		s.onChange(kind, id)
	}
}

func blobSum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func welcomeNote(now int64) models.Note {
	return models.Note{
		ID:    uuid.NewString(),
		Title: "WELCOME TO NEBULA",
		Content: "System initialization complete.\n\n" +
			"This is your personal secure data log. Use the Neural Uplink (Top Right) " +
			"to enhance your notes with AI processing.\n\nEnd of line.",
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      []string{},
	}
}
