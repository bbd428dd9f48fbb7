package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Document is a typed JSON value bound to one key of a Store.
type Document[T any] struct {
	store Store
	key   string
	log   *zap.Logger
}

func NewDocument[T any](store Store, key string, log *zap.Logger) *Document[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Document[T]{store: store, key: key, log: log}
}

func (d *Document[T]) Key() string {
	return d.key
}

// Get decodes the stored value. ok is false when the key is absent or holds
// malformed JSON; corruption is logged and never returned as an error.
func (d *Document[T]) Get(ctx context.Context) (value T, ok bool, err error) {
	raw, err := d.store.Get(ctx, d.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return value, false, nil
		}
		return value, false, fmt.Errorf("read %s: %w", d.key, err)
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		d.log.Warn("corrupted value treated as absent",
			zap.String("key", d.key), zap.Error(err))
		var zero T
		return zero, false, nil
	}

	return value, true, nil
}

func (d *Document[T]) Set(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	if err := d.store.Set(ctx, d.key, data); err != nil {
		return fmt.Errorf("write %s: %w", d.key, err)
	}
	return nil
}

func (d *Document[T]) Remove(ctx context.Context) error {
	if err := d.store.Remove(ctx, d.key); err != nil {
		return fmt.Errorf("remove %s: %w", d.key, err)
	}
	return nil
}
