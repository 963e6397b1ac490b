package vfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// OSFS implements FS over the real filesystem rooted at a base directory.
type OSFS struct {
	root string
}

// NewOSFS creates an OSFS rooted at root, creating root if it does not
// already exist.
func NewOSFS(root string) (*OSFS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("vfs: create root %s: %w", root, err)
	}
	return &OSFS{root: root}, nil
}

func (fs *OSFS) full(path string) string {
	return filepath.Join(fs.root, path)
}

func (fs *OSFS) Exists(path string) (bool, error) {
	_, err := os.Stat(fs.full(path))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (fs *OSFS) ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(fs.full(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("vfs: read %s: %w", path, ErrNotExist)
	}
	return b, err
}

// AtomicWrite implements the write-temp-then-rename protocol: write to a
// randomly named temp file in the target's directory, rename it over the
// final path, and on rename failure, treat an identically sized existing
// destination as a concurrent writer that already committed the same
// content. The temp file is always removed on exit if it survived.
func (fs *OSFS) AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(fs.full(path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("vfs: mkdir %s: %w", dir, err)
	}

	tmpName := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmpName, data, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("vfs: write temp %s: %w", tmpName, err)
	}

	finalPath := fs.full(path)
	renameErr := os.Rename(tmpName, finalPath)
	if renameErr == nil {
		return nil
	}

	if info, statErr := os.Stat(finalPath); statErr == nil && info.Size() == int64(len(data)) {
		_ = os.Remove(tmpName)
		return nil
	}

	_ = os.Remove(tmpName)
	return fmt.Errorf("vfs: rename %s to %s: %w", tmpName, finalPath, renameErr)
}

func (fs *OSFS) Size(path string) (int64, error) {
	info, err := os.Stat(fs.full(path))
	if errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("vfs: size %s: %w", path, ErrNotExist)
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (fs *OSFS) Remove(path string) error {
	err := os.Remove(fs.full(path))
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("vfs: remove %s: %w", path, err)
}

func (fs *OSFS) MkdirAll(dir string) error {
	return os.MkdirAll(fs.full(dir), 0o755)
}

func (fs *OSFS) ReadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(fs.full(dir))
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vfs: readdir %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (fs *OSFS) IsDir(path string) (bool, error) {
	info, err := os.Stat(fs.full(path))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
