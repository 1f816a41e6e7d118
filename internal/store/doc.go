// Package store provides durable key-value storage for heartline.
//
// Each key holds one JSON-encoded value. Lists are always rewritten whole:
// Load, Save and Mutate operate on the entire sequence stored under a key.
// Two backends are available, a directory of lock-guarded JSON files and a
// single SQLite database. Watcher reports writes made by other processes.
package store
