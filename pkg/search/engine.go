package search

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/harini-paramasivam/personal-memory-search-engine/internal/metrics"
	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/memory"
)

// Mode is the ranking path selected for the lifetime of the engine.
type Mode string

const (
	ModeSemantic Mode = "semantic"
	ModeLexical  Mode = "lexical"
)

// DefaultTopK is the result count when the caller does not specify one.
const DefaultTopK = 10

// Config holds engine configuration.
type Config struct {
	// ProviderFactory constructs the embedding provider. Nil, or a factory
	// that returns an error, selects lexical ranking permanently.
	ProviderFactory ProviderFactory
	Cache           *Cache // optional embedding cache
	Workers         int
	Logger          zerolog.Logger
}

// Engine ranks memories against free-text queries. The ranking mode is
// decided exactly once, at construction: the provider factory is invoked a
// single time, and any failure selects the lexical path for the remainder
// of the process. The engine is immutable after construction, so mode
// selection is single-writer and every search is a plain read.
type Engine struct {
	mode     Mode
	provider Provider
	cache    *Cache
	workers  int
	logger   zerolog.Logger
}

// New creates an engine, selecting the ranking mode.
func New(cfg Config) *Engine {
	metrics.EnsureRegistered()

	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	e := &Engine{
		mode:    ModeLexical,
		cache:   cfg.Cache,
		workers: cfg.Workers,
		logger:  cfg.Logger,
	}

	if cfg.ProviderFactory != nil {
		provider, err := cfg.ProviderFactory()
		if err != nil {
			cfg.Logger.Warn().Err(err).Msg("Embedding provider unavailable, using lexical ranking")
		} else {
			e.mode = ModeSemantic
			e.provider = provider
		}
	}

	metrics.SetSearchMode(string(e.mode))
	cfg.Logger.Info().Str("mode", string(e.mode)).Msg("Search engine initialized")

	return e
}

// Mode returns the ranking mode selected at construction.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Search ranks memories by relevance to the query and returns the best
// topK, best first. An empty memory set yields an empty result for any
// query. Memories are never mutated; scoring is a read over the snapshot.
func (e *Engine) Search(ctx context.Context, query string, memories []memory.Memory, topK int) []memory.Memory {
	start := time.Now()
	defer func() {
		metrics.RecordSearch(string(e.mode), time.Since(start))
	}()

	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(memories) == 0 {
		return []memory.Memory{}
	}

	if e.mode == ModeSemantic {
		return e.semanticSearch(ctx, query, memories, topK)
	}
	return LexicalSearch(query, memories, topK)
}
