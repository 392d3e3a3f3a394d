// Package search ranks memory records against free-text queries.
//
// Two ranking paths exist: a semantic path scoring embedding cosine
// similarity, and a deterministic lexical path that is always available.
// The path is selected once per engine, at construction, by attempting to
// build the embedding provider; a failed attempt downgrades permanently to
// lexical ranking with no per-query retry.
package search
