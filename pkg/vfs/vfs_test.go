package vfs

import (
	"errors"
	"path/filepath"
	"testing"
)

func testFilesystems(t *testing.T) map[string]FS {
	t.Helper()
	osfs, err := NewOSFS(filepath.Join(t.TempDir(), "root"))
	if err != nil {
		t.Fatalf("NewOSFS: %v", err)
	}
	return map[string]FS{
		"osfs":  osfs,
		"memfs": NewMemFS(),
	}
}

func TestAtomicWriteAndReadFile(t *testing.T) {
	for name, fs := range testFilesystems(t) {
		t.Run(name, func(t *testing.T) {
			if err := fs.AtomicWrite("ab/cdef", []byte("payload")); err != nil {
				t.Fatalf("AtomicWrite: %v", err)
			}
			got, err := fs.ReadFile("ab/cdef")
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if string(got) != "payload" {
				t.Fatalf("got %q, want %q", got, "payload")
			}
		})
	}
}

func TestReadFileNotExist(t *testing.T) {
	for name, fs := range testFilesystems(t) {
		t.Run(name, func(t *testing.T) {
			_, err := fs.ReadFile("missing")
			if !errors.Is(err, ErrNotExist) {
				t.Fatalf("expected ErrNotExist, got %v", err)
			}
		})
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	for name, fs := range testFilesystems(t) {
		t.Run(name, func(t *testing.T) {
			if err := fs.AtomicWrite("x/y", []byte("1")); err != nil {
				t.Fatalf("AtomicWrite: %v", err)
			}
			if err := fs.Remove("x/y"); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if err := fs.Remove("x/y"); err != nil {
				t.Fatalf("second Remove should be a no-op, got %v", err)
			}
			if ok, _ := fs.Exists("x/y"); ok {
				t.Fatal("file should no longer exist")
			}
		})
	}
}

func TestReadDirTwoLevelShard(t *testing.T) {
	for name, fs := range testFilesystems(t) {
		t.Run(name, func(t *testing.T) {
			if err := fs.AtomicWrite("ab/file1", []byte("1")); err != nil {
				t.Fatalf("AtomicWrite: %v", err)
			}
			if err := fs.AtomicWrite("ab/file2", []byte("2")); err != nil {
				t.Fatalf("AtomicWrite: %v", err)
			}
			if err := fs.AtomicWrite("cd/file3", []byte("3")); err != nil {
				t.Fatalf("AtomicWrite: %v", err)
			}

			shards, err := fs.ReadDir("")
			if err != nil {
				t.Fatalf("ReadDir: %v", err)
			}
			if len(shards) != 2 {
				t.Fatalf("got %d shards, want 2: %v", len(shards), shards)
			}

			files, err := fs.ReadDir("ab")
			if err != nil {
				t.Fatalf("ReadDir(ab): %v", err)
			}
			if len(files) != 2 {
				t.Fatalf("got %d files under ab, want 2: %v", len(files), files)
			}
		})
	}
}

func TestSizeMatchesWrittenLength(t *testing.T) {
	for name, fs := range testFilesystems(t) {
		t.Run(name, func(t *testing.T) {
			payload := []byte("hello world")
			if err := fs.AtomicWrite("f", payload); err != nil {
				t.Fatalf("AtomicWrite: %v", err)
			}
			size, err := fs.Size("f")
			if err != nil {
				t.Fatalf("Size: %v", err)
			}
			if size != int64(len(payload)) {
				t.Fatalf("Size() = %d, want %d", size, len(payload))
			}
		})
	}
}

func TestConcurrentAtomicWriteSameContent(t *testing.T) {
	for name, fs := range testFilesystems(t) {
		t.Run(name, func(t *testing.T) {
			payload := []byte("same content")
			done := make(chan error, 4)
			for i := 0; i < 4; i++ {
				go func() {
					done <- fs.AtomicWrite("shared", payload)
				}()
			}
			for i := 0; i < 4; i++ {
				if err := <-done; err != nil {
					t.Fatalf("concurrent AtomicWrite: %v", err)
				}
			}
			got, err := fs.ReadFile("shared")
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if string(got) != string(payload) {
				t.Fatalf("got %q, want %q", got, payload)
			}
		})
	}
}
