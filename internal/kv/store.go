package kv

import (
	"context"
	"errors"
)

// Store is the key-value backend of the sync API.
type Store interface {
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key, value string) error

	// SetNX writes value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key, value string) (bool, error)

	Del(ctx context.Context, keys ...string) error
}

var ErrNotFound = errors.New("key not found")
