package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// maxNameAttempts bounds the suffixes tried when a generated name is taken.
const maxNameAttempts = 5

// Manager maps uploads onto collision-free blob names and guards every
// lookup against escaping the store's namespace.
//
// Names combine a seconds timestamp with the sanitized original name, so two
// identical uploads in the same second collide. The store refuses to overwrite
// and the manager retries with a numeric suffix, but uniqueness is only as
// strong as that scheme.
type Manager struct {
	store BlobStore
	now   func() time.Time
}

// NewManager creates a Manager over store.
func NewManager(store BlobStore) *Manager {
	return &Manager{store: store, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Store validates and saves an uploaded multipart file.
func (m *Manager) Store(ctx context.Context, fileHeader *multipart.FileHeader, allowed ExtensionSet) (string, error) {
	if fileHeader == nil || fileHeader.Filename == "" {
		return "", apperrors.NewCustomError(apperrors.ErrMissingFile, fmt.Sprintf("Select a %s file.", allowed.Category))
	}
	if !allowed.Allows(fileHeader.Filename) {
		return "", unsupported(allowed)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	return m.Save(ctx, fileHeader.Filename, file, allowed)
}

// Save validates filename against allowed and writes r under a new name.
func (m *Manager) Save(ctx context.Context, filename string, r io.Reader, allowed ExtensionSet) (string, error) {
	if !allowed.Allows(filename) {
		return "", unsupported(allowed)
	}

	base := UniqueName(filename, m.now())
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	seeker, canRetry := r.(io.Seeker)
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := base
		if attempt > 0 {
			name = fmt.Sprintf("%s_%d%s", stem, attempt, ext)
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return "", fmt.Errorf("failed to rewind upload: %w", err)
			}
		}

		err := m.store.Put(ctx, name, r)
		if err == nil {
			logger.Info().Str("filename", filename).Str("saved_as", name).Msg("File saved successfully")
			return name, nil
		}
		if !errors.Is(err, apperrors.ErrBlobExists) || !canRetry {
			return "", err
		}
		logger.Warn().Str("name", name).Msg("Blob name taken, retrying with suffix")
	}

	return "", fmt.Errorf("%w: no free name for %q", apperrors.ErrBlobExists, filename)
}

// Delete removes a blob. Empty and missing references are no-ops.
func (m *Manager) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	if err := ValidateReference(ref); err != nil {
		return err
	}
	return m.store.Delete(ctx, ref)
}

// Open looks a blob up by name within the store.
func (m *Manager) Open(ctx context.Context, ref string) (*Blob, error) {
	if err := ValidateReference(ref); err != nil {
		return nil, err
	}
	return m.store.Open(ctx, ref)
}

// ValidateReference rejects names that could address anything other than a
// direct child of the storage root.
func ValidateReference(ref string) error {
	switch {
	case ref == "", ref == ".", ref == "..":
		return apperrors.ErrInvalidBlobReference
	case strings.ContainsAny(ref, "/\\\x00"):
		return apperrors.ErrInvalidBlobReference
	case filepath.Base(ref) != ref:
		return apperrors.ErrInvalidBlobReference
	}
	return nil
}

// UniqueName builds "<unix seconds>_<sanitized stem><ext>" for an upload.
func UniqueName(filename string, now time.Time) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := SanitizeName(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	return fmt.Sprintf("%d_%s%s", now.Unix(), stem, ext)
}

// SanitizeName reduces name to ASCII letters, digits, '_', '.' and '-'.
// Whitespace runs become a single '_' and leading/trailing dots and
// underscores are trimmed.
func SanitizeName(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}

func unsupported(allowed ExtensionSet) error {
	return apperrors.NewCustomError(apperrors.ErrUnsupportedFormat, fmt.Sprintf("Unsupported %s format.", allowed.Category))
}
