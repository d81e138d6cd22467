// Package sqlite provides a SQLite-backed implementation of driven.KeyValueStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Entries live in a single kv_entries
// table with an optional expiry timestamp.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Expiry
//
// Expired rows are filtered out on read and purged when the store is opened.
//
// # Data Location
//
// By default, the database is stored at ~/.crmlink/data/crmlink.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
