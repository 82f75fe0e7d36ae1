package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// LocalStorage keeps blobs as files in a single directory.
type LocalStorage struct {
	basePath string // absolute root directory
}

// NewLocalStorage creates a LocalStorage, creating basePath if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory %s: %w", basePath, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		logger.Error().Err(err).Str("path", abs).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", abs, err)
	}
	logger.Info().Str("path", abs).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: abs}, nil
}

// BasePath returns the storage root.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Put creates name exclusively and copies r into it.
func (ls *LocalStorage) Put(_ context.Context, name string, r io.Reader) error {
	dstPath, err := ls.resolve(name)
	if err != nil {
		return err
	}

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return apperrors.ErrBlobExists
		}
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return fmt.Errorf("%w: failed to create destination file: %w", apperrors.ErrStorage, err)
	}

	if _, err = io.Copy(dst, r); err != nil {
		dst.Close()
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return fmt.Errorf("%w: failed to save file content: %w", apperrors.ErrStorage, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("%w: failed to save file content: %w", apperrors.ErrStorage, err)
	}
	return nil
}

// Delete removes name. Missing files are treated as already deleted.
func (ls *LocalStorage) Delete(_ context.Context, name string) error {
	physicalPath, err := ls.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("%w: failed to delete file: %w", apperrors.ErrStorage, err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// Open opens name for reading.
func (ls *LocalStorage) Open(_ context.Context, name string) (*Blob, error) {
	physicalPath, err := ls.resolve(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(physicalPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.ErrBlobNotFound
		}
		return nil, fmt.Errorf("%w: failed to open file: %w", apperrors.ErrStorage, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: failed to stat file: %w", apperrors.ErrStorage, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, apperrors.ErrBlobNotFound
	}

	return &Blob{
		Name:        name,
		Size:        info.Size(),
		ContentType: contentTypeFor(name),
		Body:        f,
	}, nil
}

// resolve maps name to a path and checks it stays a direct child of the root.
func (ls *LocalStorage) resolve(name string) (string, error) {
	if err := ValidateReference(name); err != nil {
		return "", err
	}
	full := filepath.Join(ls.basePath, name)
	rel, err := filepath.Rel(ls.basePath, full)
	if err != nil || rel != name || strings.HasPrefix(rel, "..") {
		return "", apperrors.ErrInvalidBlobReference
	}
	return full, nil
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
