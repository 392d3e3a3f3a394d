// Package memory defines the Memory record produced by indexing and the
// snapshot store that persists the full record set.
//
// Invariants:
// - A memory's ID is a deterministic hash of its absolute source path.
// - Records are immutable once created; indexing replaces, never mutates.
// - Snapshot saves are atomic full replacements of the prior snapshot.
//
// Usage:
//
//	store, _ := memory.NewStore("/data/memories.json", logger)
//	_ = store.Save(memories)
//	memories, _ = store.Load()
package memory
