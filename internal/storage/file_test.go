package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempFile(t *testing.T) *File {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFile(filepath.Join(dir, "notes.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	return f
}

func TestFileLoadAbsent(t *testing.T) {
	f := tempFile(t)
	data, ok, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Errorf("ok = true for absent file, data = %q", data)
	}
}

func TestFileSaveAndLoad(t *testing.T) {
	f := tempFile(t)
	blob := []byte(`[{"id":"a1"}]`)
	if err := f.Save(blob); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("ok = false after Save")
	}
	if string(got) != string(blob) {
		t.Errorf("blob mismatch: got %q", got)
	}
}

func TestFileCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(filepath.Join(dir, "a", "b", "notes.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := f.Save([]byte("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestFileOverwriteLeavesNoTempFiles(t *testing.T) {
	f := tempFile(t)
	_ = f.Save([]byte("v1"))
	if err := f.Save([]byte("v2")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _, _ := f.Load()
	if string(got) != "v2" {
		t.Errorf("blob = %q, want v2", got)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(f.path), ".nebula-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFileRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewFile(dir); err == nil {
		t.Error("expected error when path is a directory")
	}
}

func TestFileLocationAbsolute(t *testing.T) {
	f := tempFile(t)
	if !filepath.IsAbs(f.Location()) {
		t.Errorf("Location = %q, want absolute path", f.Location())
	}
	if _, err := os.Stat(filepath.Dir(f.Location())); err != nil {
		t.Errorf("data dir missing: %v", err)
	}
}
