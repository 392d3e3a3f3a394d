// Package extractor turns raw files into extracted content for indexing.
//
// Dispatch is table-driven: a Registry maps file extensions to a category
// and the extractor handling it. Extractors are external collaborators
// from the pipeline's point of view; any extractor failure is isolated by
// the caller and downgraded to a stub record.
package extractor
