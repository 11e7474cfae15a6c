package storage

import (
	"context"
	"strings"
)

// Storage is a persistent string-keyed byte store.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryDSN selects MemoryStorage in Open.
const MemoryDSN = "memory"

// Open returns the storage described by dsn: MemoryDSN gives a MemoryStorage,
// anything else is a SQLite database path (migrated before use).
// The returned close function releases the underlying resources.
func Open(ctx context.Context, dsn string) (Storage, func() error, error) {
	if strings.EqualFold(dsn, MemoryDSN) {
		return NewMemoryStorage(), func() error { return nil }, nil
	}

	db, err := OpenSQLite(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return NewSQLiteStorage(db), db.Close, nil
}
