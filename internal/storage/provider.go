// Package storage defines the persistence adapter for the notes collection.
//
// The whole collection is held under a single logical key: providers load and
// save one opaque blob, nothing more. Serialization is the note store's
// concern.
package storage

// Provider is the interface for collection blob persistence.
type Provider interface {
	// Load returns the stored blob. ok is false when nothing has been
	// stored yet; that is not an error.
	Load() (data []byte, ok bool, err error)
	// Save durably replaces the stored blob.
	Save(data []byte) error
	// Location describes where the blob lives (file path, DSN) for
	// logging and for the external-change watcher.
	Location() string
	// Close releases provider resources.
	Close() error
}
