package app

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const MimeKindDocument = "document"

// FileBlob is a user-selected file before it is staged. Name may be empty,
// in which case the display name is derived from the path.
type FileBlob struct {
	Name string
	Path string
	Size int64
}

// Attachment is a document the user has staged or sent this session. The full
// display name is preserved for transmission; truncation is presentation-only.
type Attachment struct {
	ID          string
	DisplayName string
	Path        string
	SizeBytes   int64
	MimeKind    string
}

// AttachmentStore tracks the documents known to this session. It is a plain
// data holder: no network state, safe for concurrent use.
type AttachmentStore struct {
	mu    sync.Mutex
	items []Attachment
}

func NewAttachmentStore() *AttachmentStore {
	return &AttachmentStore{}
}

// Stage converts blobs into attachments and appends them in selection order.
// Duplicate names are allowed. Blobs without a usable name are skipped, so
// malformed or empty input yields an empty addition rather than an error.
func (s *AttachmentStore) Stage(files []FileBlob) []Attachment {
	if len(files) == 0 {
		return nil
	}

	staged := make([]Attachment, 0, len(files))
	for _, f := range files {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			name = filepath.Base(f.Path)
		}
		if name == "" || name == "." || name == string(filepath.Separator) {
			continue
		}
		staged = append(staged, Attachment{
			ID:          uuid.NewString(),
			DisplayName: name,
			Path:        f.Path,
			SizeBytes:   f.Size,
			MimeKind:    MimeKindDocument,
		})
	}
	if len(staged) == 0 {
		return nil
	}

	s.mu.Lock()
	s.items = append(s.items, staged...)
	s.mu.Unlock()
	return staged
}

// Remove drops the attachment with the given id. Removing an absent id is a
// no-op.
func (s *AttachmentStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, att := range s.items {
		if att.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// List returns a snapshot in staging order.
func (s *AttachmentStore) List() []Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Attachment, len(s.items))
	copy(out, s.items)
	return out
}

func (s *AttachmentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Clear empties the store. Used on session teardown only.
func (s *AttachmentStore) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// TruncateName shortens overlong file names for display, keeping an equal
// prefix and suffix around an ellipsis marker. Names within max are returned
// unchanged.
func TruncateName(name string, max int) string {
	if max <= 0 {
		max = 30
	}
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	half := max / 2
	return string(runes[:half]) + "..." + string(runes[len(runes)-half:])
}
