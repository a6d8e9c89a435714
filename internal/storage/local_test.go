package storage

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestSaveRead_RoundTrip(t *testing.T) {
	t.Parallel()

	l := NewLocal(filepath.Join(t.TempDir(), "nested", "root"))
	want := []byte("hello world")

	path, err := l.Save(want)
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, err := l.Read(path)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip mismatch: got %q want %q", got, want)
	}
}

func TestSave_FreshNames(t *testing.T) {
	t.Parallel()

	l := NewLocal(t.TempDir())
	p1, err := l.Save([]byte("a"))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	p2, err := l.Save([]byte("a"))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if p1 == p2 {
		t.Fatalf("identical content reused path %q", p1)
	}
}

func TestRead_Missing(t *testing.T) {
	t.Parallel()

	l := NewLocal(t.TempDir())
	if _, err := l.Read(filepath.Join(l.Root, "gone")); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// An empty path (folder record, or content never written) behaves the same.
	if _, err := l.Read(""); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for empty path, got %v", err)
	}
}
