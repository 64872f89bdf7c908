package api

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nebulahq/nebula/internal/ai"
	"github.com/nebulahq/nebula/internal/models"
)

// UpdateNoteRequest names the fields a note update may change. Absent
// fields are left untouched; id and createdAt are not reachable at all.
type UpdateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Validate requires at least one updatable field.
func (r UpdateNoteRequest) Validate() error {
	if r.Title == nil && r.Content == nil {
		return errors.New("at least one of title or content must be set")
	}
	return nil
}

// DeleteNoteRequest carries the confirmation the destructive delete needs.
// The confirmation prompt itself belongs to the presentation layer.
type DeleteNoteRequest struct {
	Confirm bool `json:"confirm"`
}

// SetActiveRequest selects the note open for editing; a null id clears the
// selection.
type SetActiveRequest struct {
	ID *string `json:"id"`
}

// EnhanceRequest triggers an AI action against the active note.
type EnhanceRequest struct {
	Action string `json:"action"`
}

// Validate checks the action against the closed set.
func (r EnhanceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Action, validation.Required,
			validation.In(
				string(ai.ActionSummarize),
				string(ai.ActionExpand),
				string(ai.ActionRewriteSciFi),
				string(ai.ActionFixGrammar),
			)),
	)
}

// NoteListResponse wraps the collection snapshot plus the active selection.
type NoteListResponse struct {
	Notes  []models.Note `json:"notes"`
	Active string        `json:"active"`
}

// ActiveResponse reports the current selection; empty means none.
type ActiveResponse struct {
	ID string `json:"id"`
}

// EnhanceResponse returns the generated text awaiting an explicit apply.
type EnhanceResponse struct {
	Result string `json:"result"`
}
