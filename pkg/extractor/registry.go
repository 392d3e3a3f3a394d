package extractor

import (
	"context"
	"sort"
	"strings"

	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/memory"
)

// Raw is the output of a content extractor: the minimal structured content
// pulled from one file. Provenance metadata is added by the indexing
// pipeline, never by an extractor.
type Raw struct {
	Title    string
	Content  string
	Entities []memory.Entity
}

// Extractor turns a raw file into extracted content for one file category.
// Implementations may fail; callers are expected to isolate failures.
type Extractor interface {
	Extract(ctx context.Context, path string) (*Raw, error)
}

// Registration binds a file category to the extractor handling it.
type Registration struct {
	Category  memory.Type
	Extractor Extractor
}

// Registry maps file extensions to categories and extractors. Dispatch is
// data-driven: the table decides, not control flow.
type Registry struct {
	byExt    map[string]Registration
	fallback Registration
}

// NewRegistry builds the default extension table: documents, images, audio
// and local web pages. Extensions not in the table fall back to the
// document extractor.
func NewRegistry() *Registry {
	doc := NewDocumentExtractor()
	img := &ImageExtractor{}
	aud := &AudioExtractor{}
	web := &HTMLExtractor{}

	r := &Registry{
		byExt:    make(map[string]Registration),
		fallback: Registration{Category: memory.TypeDocument, Extractor: doc},
	}

	for _, ext := range []string{".txt", ".md", ".rtf", ".csv", ".json", ".pdf", ".docx", ".doc"} {
		r.Register(ext, memory.TypeDocument, doc)
	}
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"} {
		r.Register(ext, memory.TypeImage, img)
	}
	for _, ext := range []string{".mp3", ".wav", ".m4a", ".ogg", ".flac"} {
		r.Register(ext, memory.TypeAudio, aud)
	}
	r.Register(".html", memory.TypeWeb, web)

	return r
}

// Register adds or replaces the registration for an extension.
func (r *Registry) Register(ext string, category memory.Type, ex Extractor) {
	r.byExt[strings.ToLower(ext)] = Registration{Category: category, Extractor: ex}
}

// Lookup resolves an extension to its registration. Unknown extensions
// resolve to the document fallback, with ok=false so callers can tell.
func (r *Registry) Lookup(ext string) (Registration, bool) {
	reg, ok := r.byExt[strings.ToLower(ext)]
	if !ok {
		return r.fallback, false
	}
	return reg, true
}

// Extensions returns the registered extensions in sorted order. This is
// the default allow-list for indexing.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
