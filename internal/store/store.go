package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidKey is returned for keys that cannot be stored.
	ErrInvalidKey = errors.New("invalid storage key")

	// ErrUnchanged may be returned by a Mutate function to skip the write.
	ErrUnchanged = errors.New("unchanged")
)

// UpdateFunc receives the current value (ok is false when absent) and returns
// the value to store.
type UpdateFunc func(old []byte, ok bool) ([]byte, error)

// Backend is a durable key-value store.
type Backend interface {
	// Get returns the raw value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)

	// Set overwrites the value for key.
	Set(key string, value []byte) error

	// Update performs a read-modify-write of key while holding an exclusive
	// lock, so no other writer can interleave between the read and the write.
	Update(key string, fn UpdateFunc) error

	// Close releases any resources held by the backend.
	Close() error
}

// Open returns the backend named by kind ("file" or "sqlite") rooted at dir.
func Open(kind, dir string) (Backend, error) {
	switch kind {
	case "", "file":
		return NewFileBackend(dir)
	case "sqlite":
		return NewSQLiteBackend(dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected file or sqlite)", kind)
	}
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\:`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Load returns the sequence stored under key, or an empty sequence when the
// key is absent. A stored value that is not valid JSON is an error.
func Load[T any](b Backend, key string) ([]T, error) {
	data, ok, err := b.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}
	return decodeList[T](key, data)
}

// Save serializes items and overwrites key.
func Save[T any](b Backend, key string, items []T) error {
	data, err := encodeList(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return b.Set(key, data)
}

// Mutate loads the sequence under key, applies fn and saves the result, all
// under the backend's exclusive lock. If fn returns an error nothing is written;
// ErrUnchanged is swallowed.
func Mutate[T any](b Backend, key string, fn func([]T) ([]T, error)) error {
	err := b.Update(key, func(old []byte, ok bool) ([]byte, error) {
		items := []T{}
		if ok {
			var err error
			if items, err = decodeList[T](key, old); err != nil {
				return nil, err
			}
		}
		items, err := fn(items)
		if err != nil {
			return nil, err
		}
		data, err := encodeList(items)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		return data, nil
	})
	if errors.Is(err, ErrUnchanged) {
		return nil
	}
	return err
}

func decodeList[T any](key string, data []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func encodeList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
