package securestore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/core/pkg/zstore"
)

const collectionName = "secure"

// entry is one stored key-value pair.
type entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Local is a Store backed by an encrypted zstore collection on a filesystem.
type Local struct {
	store   *zstore.Store
	entries *zstore.Collection[entry]
}

// OpenLocal opens or initializes the encrypted store in dir.
// On first run the password becomes the master password.
func OpenLocal(dir string, password []byte) (*Local, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("open local store: create data dir: %w", err)
	}

	return NewLocal(zfilesystem.NewOSFileSystem(dir), password)
}

// NewLocal opens the encrypted store on fsys.
func NewLocal(fsys zfilesystem.ReadWriteFileFS, password []byte) (*Local, error) {
	s, err := zstore.Open(fsys, password)
	if err != nil {
		if errors.Is(err, zstore.ErrWrongPassword) {
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("open local store: %w", err)
	}

	col, err := zstore.NewCollection[entry](s, collectionName)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open local store: collection: %w", err)
	}

	return &Local{store: s, entries: col}, nil
}

// Get returns the value stored under key.
func (l *Local) Get(_ context.Context, key string) (string, error) {
	e, err := l.entries.Get(key)
	if errors.Is(err, zstore.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return e.Value, nil
}

// Set stores value under key, replacing any previous value.
func (l *Local) Set(_ context.Context, key, value string) error {
	if err := l.entries.Put(key, entry{Key: key, Value: value}); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Removing an absent key succeeds.
func (l *Local) Delete(_ context.Context, key string) error {
	err := l.entries.Delete(key)
	if err == nil || errors.Is(err, zstore.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("delete %s: %w", key, err)
}

// Close erases the key material.
func (l *Local) Close() error {
	return l.store.Close()
}
