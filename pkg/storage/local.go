package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStore persists evidence files. The progression engine and document
// coordinator delegate physical storage here so the database layer never
// touches the filesystem.
type FileStore interface {
	// Save writes src under the given relative directory and returns the
	// generated stored filename plus the relative path recorded in the
	// document row.
	Save(dir, originalFilename string, src io.Reader) (storedName, relPath string, err error)

	// Remove deletes a previously stored file. A missing file is not an
	// error: hard deletes treat absent files as already gone.
	Remove(relPath string) error
}

// LocalStore stores files on the local disk under a root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload root: %w", err)
	}
	return &LocalStore{root: dir}, nil
}

var _ FileStore = (*LocalStore)(nil)

func (s *LocalStore) Save(dir, originalFilename string, src io.Reader) (string, string, error) {
	storedName := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), sanitizeExt(originalFilename))
	relPath := filepath.Join(dir, storedName)

	absDir := filepath.Join(s.root, dir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(absDir, storedName))
	if err != nil {
		return "", "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", "", fmt.Errorf("failed to write file: %w", err)
	}

	return storedName, relPath, nil
}

func (s *LocalStore) Remove(relPath string) error {
	// Reject paths that escape the root.
	clean := filepath.Clean(relPath)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid stored path: %s", relPath)
	}

	err := os.Remove(filepath.Join(s.root, clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// sanitizeExt keeps only a simple extension from the original filename.
func sanitizeExt(name string) string {
	ext := filepath.Ext(name)
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return strings.ToLower(ext)
}
