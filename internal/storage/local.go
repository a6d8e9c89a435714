// Package storage persists file content as opaque blobs on the local
// filesystem.  Each blob lives under a configurable root directory and is
// named by a freshly generated unguessable identifier, never by the
// record id, so concurrent writes cannot collide.
package storage

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Read when the blob is missing on disk.
var ErrNotFound = errors.New("content not found")

// Local stores blobs under Root, creating it on first write.
type Local struct{ Root string }

func NewLocal(root string) *Local { return &Local{Root: root} }

// Save writes data to a fresh randomly-named file under the root and
// returns its path.
func (l *Local) Save(data []byte) (string, error) {
	if err := os.MkdirAll(l.Root, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(l.Root, uuid.NewString())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// Read returns the blob stored at path.  A missing blob is ErrNotFound;
// any other I/O failure propagates.
func (l *Local) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
