package storage

import (
	"context"

	"github.com/poiesic/internmatch/core"
)

// VectorRepository persists embedding cache entries keyed by item id.
// Implementations must be thread-safe and support concurrent access.
type VectorRepository interface {
	// GetVectors retrieves the entries for the given ids.
	// Missing ids are simply absent from the result; an entry whose stored
	// bytes no longer deserialize is logged and treated as missing, so the
	// caller rebuilds it (corrupt cache is recoverable, not fatal).
	GetVectors(ctx context.Context, ids ...string) (map[string]*core.EmbeddingEntry, error)

	// PutVectors persists the given entries in a single transaction, so an
	// interrupted batch never leaves a partial write. Entries with a zero
	// InsertedAt get the current time.
	PutVectors(ctx context.Context, entries ...*core.EmbeddingEntry) error

	// AllVectors returns every readable entry in the cache.
	// Corrupt entries are skipped with a warning.
	AllVectors(ctx context.Context) ([]*core.EmbeddingEntry, error)

	// DeleteAll removes every entry. Used by explicit cache rebuilds only;
	// normal operation never deletes or mutates stored vectors.
	DeleteAll(ctx context.Context) error

	// Close closes the repository and releases resources.
	Close() error
}
