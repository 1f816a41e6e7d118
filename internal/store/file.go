package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/henri123lemoine/heartline/internal/debug"
)

const fileExt = ".json"

// FileBackend stores each key as a JSON file in a directory. Readers take a
// shared lock and writers an exclusive one on a sibling .lock file.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the directory if needed and returns a backend over it.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Dir returns the data directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+fileExt)
}

// Get reads key under a shared lock.
func (b *FileBackend) Get(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	path := b.path(key)

	// Shared (read) lock - blocks while a writer holds the exclusive lock
	fileLock := flock.New(path + ".lock")
	if err := fileLock.RLock(); err != nil {
		return nil, false, fmt.Errorf("lock %s: %w", key, err)
	}
	defer fileLock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set overwrites key under an exclusive lock.
func (b *FileBackend) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	path := b.path(key)

	fileLock := flock.New(path + ".lock")
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	defer fileLock.Unlock()

	return writeAtomic(path, value)
}

// Update holds the exclusive lock across the read and the write.
func (b *FileBackend) Update(key string, fn UpdateFunc) error {
	if err := validateKey(key); err != nil {
		return err
	}
	path := b.path(key)

	fileLock := flock.New(path + ".lock")
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	defer fileLock.Unlock()

	old, err := os.ReadFile(path)
	ok := true
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		ok = false
	}

	next, err := fn(old, ok)
	if err != nil {
		return err
	}
	debug.Log("store: update %s (%d -> %d bytes)", key, len(old), len(next))
	return writeAtomic(path, next)
}

// Close is a no-op; locks are released after every call.
func (b *FileBackend) Close() error {
	return nil
}

// WatchTarget reports the directory to watch and which names are values.
func (b *FileBackend) WatchTarget() (string, func(name string) bool) {
	return b.dir, func(name string) bool {
		return strings.HasSuffix(name, fileExt)
	}
}

// writeAtomic writes to a temp file then renames it over path.
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
