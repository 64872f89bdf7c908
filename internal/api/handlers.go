package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nebulahq/nebula/internal/ai"
	"github.com/nebulahq/nebula/internal/apperr"
	"github.com/nebulahq/nebula/internal/notestore"
)

// Handler holds API route handlers.
type Handler struct {
	store   *notestore.Store
	session *ai.Session
}

// NewHandler creates a new Handler.
func NewHandler(store *notestore.Store, session *ai.Session) *Handler {
	return &Handler{store: store, session: session}
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrBusy):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrNoResult):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrInputEmpty):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrCredentialMissing):
		writeJSON(w, http.StatusServiceUnavailable, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrGenerationFailed):
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListNotes handles GET /notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	active, _ := h.store.ActiveID()
	writeJSON(w, http.StatusOK, NoteListResponse{
		Notes:  h.store.List(),
		Active: active,
	})
}

// CreateNote handles POST /notes. A new note starts empty and becomes active.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	note := h.store.Create()
	writeJSON(w, http.StatusCreated, note)
}

// GetNote handles GET /notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PATCH /notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note, err := h.store.Update(chi.URLParam(r, "id"), notestore.UpdateRequest{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{id}. The destructive mutation runs only
// with an explicit confirmation in the body.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	var req DeleteNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Confirm {
		writeJSON(w, http.StatusBadRequest, errorBody("deletion requires confirmation"))
		return
	}
	if err := h.store.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFavorite handles POST /notes/{id}/favorite.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	note, err := h.store.ToggleFavorite(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// GetActive handles GET /active.
func (h *Handler) GetActive(w http.ResponseWriter, r *http.Request) {
	id, _ := h.store.ActiveID()
	writeJSON(w, http.StatusOK, ActiveResponse{ID: id})
}

// SetActive handles PUT /active. A null id clears the selection.
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := ""
	if req.ID != nil {
		id = *req.ID
	}
	if err := h.store.SetActive(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Enhance handles POST /ai/enhance, running an action over the active note.
func (h *Handler) Enhance(w http.ResponseWriter, r *http.Request) {
	var req EnhanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	action, err := ai.ParseAction(req.Action)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	result, err := h.session.Enhance(r.Context(), action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EnhanceResponse{Result: result})
}

// AIStatus handles GET /ai/result.
func (h *Handler) AIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Status())
}

// ApplyResult handles POST /ai/apply, copying the retained result into the
// note it was generated for.
func (h *Handler) ApplyResult(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Apply(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearResult handles POST /ai/clear.
func (h *Handler) ClearResult(w http.ResponseWriter, r *http.Request) {
	h.session.Clear()
	w.WriteHeader(http.StatusNoContent)
}
