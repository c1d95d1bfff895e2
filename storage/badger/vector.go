package badger

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/internmatch/core"
	"github.com/poiesic/internmatch/storage"
)

// Key prefix for embedding cache entries
const vectorPrefix = "embvec"

// makeVectorKey generates a key for an embedding entry by item id.
func makeVectorKey(id string) []byte {
	return []byte(vectorPrefix + ":" + id)
}

// VectorRepository implements storage.VectorRepository for BadgerDB.
type VectorRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
func NewVectorRepository(backend *Backend) (*VectorRepository, error) {
	return &VectorRepository{
		backend: backend,
		logger:  slog.Default().With("component", "vector-repository"),
	}, nil
}

// Close releases resources. VectorRepository has no resources to release.
func (r *VectorRepository) Close() error {
	return nil
}

// GetVectors retrieves the entries for the given ids.
// Missing ids are absent from the result. A stored value that fails to
// deserialize is logged and reported as missing so the caller re-embeds it.
func (r *VectorRepository) GetVectors(ctx context.Context, ids ...string) (map[string]*core.EmbeddingEntry, error) {
	result := make(map[string]*core.EmbeddingEntry, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := tx.Get(makeVectorKey(id))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}

			var entry *core.EmbeddingEntry
			err = item.Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalEmbeddingEntry(val)
				return err
			})
			if err != nil {
				// Corrupt entry: self-heal by rebuilding instead of aborting.
				r.logger.Warn("corrupt embedding entry, will rebuild", "itemID", id, "err", err)
				continue
			}
			result[id] = entry
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return result, nil
}

// PutVectors persists the given entries in a single transaction.
func (r *VectorRepository) PutVectors(ctx context.Context, entries ...*core.EmbeddingEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			if entry.InsertedAt.IsZero() {
				entry.InsertedAt = time.Now().UTC()
			}
			key := makeVectorKey(entry.ItemID)
			if err := tx.Set(key, storage.MarshalEmbeddingEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// AllVectors returns every readable entry in the cache.
func (r *VectorRepository) AllVectors(ctx context.Context) ([]*core.EmbeddingEntry, error) {
	var results []*core.EmbeddingEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			var entry *core.EmbeddingEntry
			err := item.Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalEmbeddingEntry(val)
				return err
			})
			if err != nil {
				r.logger.Warn("skipping corrupt embedding entry", "key", string(item.Key()), "err", err)
				continue
			}
			results = append(results, entry)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteAll removes every entry from the cache.
func (r *VectorRepository) DeleteAll(ctx context.Context) error {
	// Collect keys first; badger forbids writes while iterating the same txn's
	// pending set with prefetch.
	var keys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
