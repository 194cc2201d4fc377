// Package memory provides in-memory implementations of driven ports.
//
// VectorIndex is the production similarity search: the whole index is held
// in memory and ranked by brute-force cosine similarity. The stores are used
// in tests and for ephemeral runs that must not touch the filesystem.
package memory
