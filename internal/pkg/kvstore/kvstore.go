package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned when a key has never been written
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Store is a persistent key-value store holding serialized snapshots.
// The notification engine uses exactly two fixed keys: one for the
// notification collection and one for the preferences object.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
