// Package store persists companion export documents keyed by companion id.
//
// Stores are external collaborators of the companion Manager: they see only
// the JSON document produced by Manager.ExportCharacter and never touch the
// aggregate directly.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no snapshot exists for the id.
var ErrNotFound = errors.New("store: snapshot not found")

// Store is the pluggable snapshot backend.
type Store interface {
	Save(ctx context.Context, id string, doc []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
	// Delete removes the snapshot. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
	// List returns the stored ids in ascending order.
	List(ctx context.Context) ([]string, error)
}

// Compile-time interface checks.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*SQLStore)(nil)
	_ Store = (*CachedStore)(nil)
)
