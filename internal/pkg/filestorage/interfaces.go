package filestorage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// Blob is an opened stored file.
type Blob struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.ReadCloser
}

// BlobStore is a flat namespace of named files.
type BlobStore interface {
	// Put writes r under name. It must not overwrite an existing blob and
	// returns apperrors.ErrBlobExists instead.
	Put(ctx context.Context, name string, r io.Reader) error

	// Delete removes the blob. A missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// Open returns the blob or apperrors.ErrBlobNotFound.
	Open(ctx context.Context, name string) (*Blob, error)
}

// ExtensionSet is the allow-list of file extensions for one upload category.
type ExtensionSet struct {
	Category   string
	extensions map[string]struct{}
}

// NewExtensionSet builds a set; extensions are matched case-insensitively.
func NewExtensionSet(category string, exts ...string) ExtensionSet {
	set := ExtensionSet{Category: category, extensions: make(map[string]struct{}, len(exts))}
	for _, e := range exts {
		set.extensions[strings.ToLower(e)] = struct{}{}
	}
	return set
}

// Allows reports whether filename has an extension in the set.
func (s ExtensionSet) Allows(filename string) bool {
	_, ok := s.extensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Upload categories accepted by the application.
var (
	ImageExtensions    = NewExtensionSet("image", ".jpg", ".jpeg", ".png", ".gif", ".webp")
	VideoExtensions    = NewExtensionSet("video", ".mp4", ".mov", ".m4v", ".webm", ".avi", ".mkv")
	DocumentExtensions = NewExtensionSet("document", ".pdf", ".doc", ".docx", ".txt", ".md", ".ppt", ".pptx")
)
