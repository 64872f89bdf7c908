package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File implements Provider backed by a single file on the local file system.
type File struct {
	path string // absolute path to the data file
}

// NewFile creates a file provider at the given path, creating parent
// directories as needed.
func NewFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return nil, fmt.Errorf("storage: data path is a directory: %s", abs)
	}
	return &File{path: abs}, nil
}

// Load reads the data file. A missing file means no blob has been stored yet.
func (f *File) Load() ([]byte, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	return data, true, nil
}

// Save atomically replaces the data file: tmp file → fsync → rename.
func (f *File) Save(data []byte) error {
	dir := filepath.Dir(f.path)

	tmp, err := os.CreateTemp(dir, ".nebula-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Location returns the absolute path of the data file.
func (f *File) Location() string {
	return f.path
}

// Close is a no-op for the file provider.
func (f *File) Close() error { return nil }
