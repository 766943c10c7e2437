package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists citizen-submitted attachments on disk. Only the relative
// path is handed back to callers; the directory is served statically under a
// fixed URL prefix.
type ImageStore struct {
	baseDir    string
	allowedExt map[string]struct{}
	maxSize    int64
}

// NewImageStore ensures the upload directory exists and returns a handle.
func NewImageStore(baseDir string, allowedExtensions []string, maxSize int64) (*ImageStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	exts := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		exts[strings.ToLower(strings.TrimSpace(ext))] = struct{}{}
	}
	return &ImageStore{baseDir: baseDir, allowedExt: exts, maxSize: maxSize}, nil
}

// Accepts reports whether the original filename carries an allowed extension.
func (s *ImageStore) Accepts(filename string) bool {
	if len(s.allowedExt) == 0 {
		return true
	}
	_, ok := s.allowedExt[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// MaxSize returns the configured upload size cap in bytes.
func (s *ImageStore) MaxSize() int64 {
	return s.maxSize
}

// SaveStream copies the reader into a uniquely named file and returns the
// name relative to the base directory.
func (s *ImageStore) SaveStream(originalName string, r io.Reader) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(s.baseDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	limit := io.Reader(r)
	if s.maxSize > 0 {
		limit = io.LimitReader(r, s.maxSize+1)
	}
	written, err := io.Copy(file, limit)
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if s.maxSize > 0 && written > s.maxSize {
		_ = os.Remove(path)
		return "", fmt.Errorf("upload exceeds %d bytes", s.maxSize)
	}
	return name, nil
}

// Delete removes a stored file if present.
func (s *ImageStore) Delete(filename string) error {
	if filename == "" {
		return nil
	}
	path := filepath.Join(s.baseDir, filepath.Base(filename))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

// Dir exposes the base directory for static serving.
func (s *ImageStore) Dir() string {
	return s.baseDir
}
