// Package models defines the domain types for Nebula.
package models

// Note is a single user-authored data log entry.
//
// JSON field names match the persisted collection format so that a blob
// written by an earlier client rehydrates unchanged. Timestamps are
// milliseconds since the Unix epoch. ID and CreatedAt are immutable after
// creation; Tags is reserved and never mutated by any operation.
type Note struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	CreatedAt  int64    `json:"createdAt"`
	UpdatedAt  int64    `json:"updatedAt"`
	Tags       []string `json:"tags"`
	IsFavorite bool     `json:"isFavorite"`
}

// Clone returns a copy of the note that shares no slices with the original.
func (n Note) Clone() Note {
	out := n
	out.Tags = make([]string, len(n.Tags))
	copy(out.Tags, n.Tags)
	return out
}
