// Package storage is the client's persistent key/value storage, the
// counterpart of browser local storage: the bearer token and the cached user
// live here under fixed keys (see common.TokenStorageKey, common.UserStorageKey).
//
// Two implementations are provided:
//   - SQLiteStorage keeps values in a single SQLite table whose schema is
//     applied by embedded goose migrations (see Open).
//   - MemoryStorage keeps values in a map; nothing survives the process.
//
// Get returns (nil, nil) for a missing key; Delete of a missing key is not an
// error. Both implementations are safe for concurrent use.
package storage
