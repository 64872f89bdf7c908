package ai

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nebulahq/nebula/internal/apperr"
	"github.com/nebulahq/nebula/internal/notestore"
)

type state int

const (
	stateIdle state = iota
	stateProcessing
	stateSucceeded
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateProcessing:
		return "processing"
	case stateSucceeded:
		return "succeeded"
	case stateFailed:
		return "failed"
	}
	return "idle"
}

// Status is a snapshot of the session for the presentation layer.
type Status struct {
	State  string `json:"state"`
	NoteID string `json:"noteId,omitempty"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Session owns the enhancement lifecycle for one store: Idle → Processing →
// Succeeded|Failed → Idle. Only one enhancement may be in flight at a time;
// a second request is rejected, not queued. The target note id is captured
// when the enhancement starts, so a result always applies to the note it was
// generated for, never to "whatever is active later".
type Session struct {
	mu      sync.Mutex
	gateway *Gateway
	store   *notestore.Store
	logger  *slog.Logger

	state   state
	noteID  string
	result  string
	lastErr error
}

// NewSession creates an idle session.
func NewSession(gateway *Gateway, store *notestore.Store, logger *slog.Logger) *Session {
	return &Session{gateway: gateway, store: store, logger: logger}
}

// Enhance runs the given action over the active note's content and retains
// the outcome for a later Apply. It fails with ErrBusy while another
// enhancement is in flight and with ErrNotFound when no note is active.
func (s *Session) Enhance(ctx context.Context, action Action) (string, error) {
	s.mu.Lock()
	if s.state == stateProcessing {
		s.mu.Unlock()
		return "", apperr.ErrBusy
	}
	id, ok := s.store.ActiveID()
	if !ok {
		s.mu.Unlock()
		return "", apperr.ErrNotFound
	}
	note, err := s.store.Get(id)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.state = stateProcessing
	s.noteID = id
	s.result = ""
	s.lastErr = nil
	s.mu.Unlock()

	text, err := s.gateway.Enhance(ctx, note.Content, action, note.Title)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = stateFailed
		s.lastErr = err
		return "", err
	}
	s.state = stateSucceeded
	s.result = text
	return text, nil
}

// Apply copies the retained result into the note captured at enhance time
// and clears the transient state. If that note has since been deleted the
// result is discarded silently. When the note's title was empty at apply
// time, a title is requested in the background for the same note id; this
// never blocks or fails the content update.
func (s *Session) Apply(ctx context.Context) error {
	s.mu.Lock()
	if s.state != stateSucceeded {
		s.mu.Unlock()
		return apperr.ErrNoResult
	}
	// Hold the in-flight slot while the update runs, so an Enhance admitted
	// between the snapshot and the reset cannot have its state wiped.
	s.state = stateProcessing
	id, text := s.noteID, s.result
	s.mu.Unlock()

	note, err := s.store.Get(id)
	if err != nil {
		s.logger.Debug("discarding result for deleted note", slog.String("note_id", id))
		s.reset()
		return nil
	}
	if _, err := s.store.Update(id, notestore.UpdateRequest{Content: &text}); err != nil {
		s.logger.Debug("discarding result for deleted note", slog.String("note_id", id))
		s.reset()
		return nil
	}
	s.reset()

	if note.Title == "" {
		go s.autoTitle(context.WithoutCancel(ctx), id, text)
	}
	return nil
}

// Clear drops a retained result or error without retrying. A clear during
// processing is ignored; the in-flight call still owns the state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateProcessing {
		return
	}
	s.state = stateIdle
	s.noteID = ""
	s.result = ""
	s.lastErr = nil
}

// Status returns a snapshot for rendering.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Status{State: s.state.String(), NoteID: s.noteID, Result: s.result}
	if s.lastErr != nil {
		out.Error = s.lastErr.Error()
	}
	return out
}

func (s *Session) reset() {
	s.mu.Lock()
	s.state = stateIdle
	s.noteID = ""
	s.result = ""
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *Session) autoTitle(ctx context.Context, id, content string) {
	title := s.gateway.GenerateTitle(ctx, content)
	if _, err := s.store.Update(id, notestore.UpdateRequest{Title: &title}); err != nil {
		s.logger.Debug("auto-title target gone", slog.String("note_id", id))
	}
}
