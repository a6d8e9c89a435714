package model

import "time"

// File kinds accepted by the upload endpoint.  Folders carry no byte
// content; files and images both do, images additionally trigger a
// thumbnail job.
const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

// RootParent is the sentinel parent_id marking a top-level record.
const RootParent = "0"

// ValidType reports whether t is one of the accepted file kinds.
func ValidType(t string) bool {
	return t == TypeFolder || t == TypeFile || t == TypeImage
}

// File mirrors the `files` table.  ParentID is either RootParent or the
// id of an existing folder record.  LocalPath is set only for non-folder
// kinds and points at the stored blob; it is never exposed to clients.
type File struct {
	ID        string    // files.id
	UserID    string    // files.user_id (owner, immutable)
	Name      string    // files.name
	Type      string    // files.type
	IsPublic  bool      // files.is_public
	ParentID  string    // files.parent_id ("0" = top level)
	LocalPath string    // files.local_path (empty for folders)
	CreatedAt time.Time // files.created_at
}
