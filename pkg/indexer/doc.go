// Package indexer walks file trees and produces the memory snapshot.
//
// Invariants:
// - The same absolute path always yields the same memory ID.
// - Per-file extraction failures downgrade to stub records; a run only
//   fails when the snapshot itself cannot be written.
// - The snapshot write is a single atomic replacement after all workers
//   finish, never interleaved per file.
package indexer
