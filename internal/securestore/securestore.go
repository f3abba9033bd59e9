// Package securestore provides an encrypted string key-value store.
// Values are opaque to the store; callers own the key space.
package securestore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when a key has no value.
	ErrNotFound = errors.New("key not found")

	// ErrWrongPassword is returned when the master password does not
	// unlock an existing store.
	ErrWrongPassword = errors.New("wrong password")
)

// Store is an encrypted map from string key to string value.
// Delete of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Lookup returns the value for key and whether it was present.
// Only real store failures are returned as errors.
func Lookup(ctx context.Context, s Store, key string) (string, bool, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
