package vfs

import "errors"

// ErrNotExist is returned by ReadFile and Size when the named
// entry does not exist. Implementations may wrap it; callers should use
// errors.Is against this sentinel rather than comparing values directly.
var ErrNotExist = errors.New("vfs: no such file or directory")

// FS is the filesystem capability the Transaction Store writes through. It
// is implemented once for the real filesystem (OSFS) and once for an
// in-memory tree (MemFS), so the Transaction Store's path and iteration
// logic never has to know which backend it is driving.
type FS interface {
	// Exists reports whether path names an existing file.
	Exists(path string) (bool, error)

	// ReadFile returns the full contents of path, or an error wrapping
	// ErrNotExist if it does not exist.
	ReadFile(path string) ([]byte, error)

	// AtomicWrite durably writes data to path such that a concurrent
	// reader never observes a partial write, and two concurrent writers
	// of identical content never fail each other. OSFS implements this
	// via write-to-temp-then-rename with a same-size fallback; MemFS
	// writes directly, since its single in-process mutex already gives
	// atomicity for free.
	AtomicWrite(path string, data []byte) error

	// Size returns the byte length of path, or an error wrapping
	// ErrNotExist if it does not exist.
	Size(path string) (int64, error)

	// Remove deletes path. Removing a path that does not exist is a
	// no-op, not an error.
	Remove(path string) error

	// MkdirAll ensures dir and all of its parents exist.
	MkdirAll(dir string) error

	// ReadDir returns the names of dir's immediate entries. It returns
	// an empty, non-nil slice (not an error) if dir does not exist.
	ReadDir(dir string) ([]string, error)

	// IsDir reports whether path names a directory.
	IsDir(path string) (bool, error)
}
