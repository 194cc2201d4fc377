// Package sqlite persists the semantic index in a single SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The database holds a manifest row and one row per embedded
// span; vectors are stored as little-endian float32 BLOBs.
//
// # Replacement
//
// Save writes a complete database to a temporary file in the index directory
// and renames it over the live file. Readers either see the previous index or
// the new one, never a partial write.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
package sqlite
