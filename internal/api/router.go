package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nebulahq/nebula/internal/ai"
	"github.com/nebulahq/nebula/internal/notestore"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(store *notestore.Store, session *ai.Session, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(store, session)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Patch("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)
	r.Post("/notes/{id}/favorite", h.ToggleFavorite)

	// Active selection.
	r.Get("/active", h.GetActive)
	r.Put("/active", h.SetActive)

	// AI enhancement.
	r.Post("/ai/enhance", h.Enhance)
	r.Get("/ai/result", h.AIStatus)
	r.Post("/ai/apply", h.ApplyResult)
	r.Post("/ai/clear", h.ClearResult)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
