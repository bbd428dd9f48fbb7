// Package kv is the key-value persistence primitive underneath the habit
// store. Every backend stores opaque bytes under string keys and replaces a
// value atomically on Set.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value under key in a single atomic write.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys lists every stored key in ascending order.
	Keys(ctx context.Context) ([]string, error)

	MultiRemove(ctx context.Context, keys ...string) error
}
