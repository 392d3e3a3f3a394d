package search

import (
	"context"
	"sort"
	"sync"

	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/memory"
)

// Semantic scoring parameters: title and content similarities are weighted
// and summed; only the first contentEmbedLimit characters of content are
// encoded to bound cost.
const (
	titleWeight       = 0.4
	contentWeight     = 0.6
	contentEmbedLimit = 200
)

// semanticSearch ranks memories by embedding similarity to the query.
// The query is encoded once; per-memory scoring runs on a bounded worker
// pool, and the sort/top-k merge is a single-threaded step afterwards.
func (e *Engine) semanticSearch(ctx context.Context, query string, memories []memory.Memory, topK int) []memory.Memory {
	queryVec, err := e.embed(ctx, query)
	if err != nil {
		// The mode stays semantic; only this query degrades.
		e.logger.Warn().Err(err).Msg("Query embedding failed, scoring lexically")
		return LexicalSearch(query, memories, topK)
	}

	scores := make([]float64, len(memories))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				scores[idx] = e.scoreMemory(ctx, queryVec, memories[idx])
			}
		}()
	}
	for i := range memories {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	indices := make([]int, len(memories))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return scores[indices[i]] > scores[indices[j]]
	})

	if len(indices) > topK {
		indices = indices[:topK]
	}

	ranked := make([]memory.Memory, len(indices))
	for i, idx := range indices {
		ranked[i] = memories[idx]
	}
	return ranked
}

// scoreMemory computes the weighted similarity of one memory against the
// query vector. A memory missing both title and content scores 0; an
// encoding failure zeroes that term only.
func (e *Engine) scoreMemory(ctx context.Context, queryVec []float32, m memory.Memory) float64 {
	var score float64

	if m.Title != "" {
		if titleVec, err := e.embed(ctx, m.Title); err == nil {
			score += titleWeight * Cosine(queryVec, titleVec)
		} else {
			e.logger.Debug().Err(err).Str("id", m.ID).Msg("Title embedding failed")
		}
	}

	if m.Content != "" {
		excerpt := m.Content
		if runes := []rune(excerpt); len(runes) > contentEmbedLimit {
			excerpt = string(runes[:contentEmbedLimit])
		}
		if contentVec, err := e.embed(ctx, excerpt); err == nil {
			score += contentWeight * Cosine(queryVec, contentVec)
		} else {
			e.logger.Debug().Err(err).Str("id", m.ID).Msg("Content embedding failed")
		}
	}

	return score
}

// IndexVectors encodes each memory and stores its vector for
// nearest-neighbor lookup. A no-op in lexical mode or without a cache;
// per-memory failures are skipped so one bad record never aborts the pass.
func (e *Engine) IndexVectors(ctx context.Context, memories []memory.Memory) {
	if e.mode != ModeSemantic || e.cache == nil {
		return
	}

	jobs := make(chan memory.Memory)
	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				text := m.Content
				if runes := []rune(text); len(runes) > contentEmbedLimit {
					text = string(runes[:contentEmbedLimit])
				}
				if text == "" {
					text = m.Title
				}
				if text == "" {
					continue
				}
				vec, err := e.embed(ctx, text)
				if err != nil {
					e.logger.Debug().Err(err).Str("id", m.ID).Msg("Vector indexing failed")
					continue
				}
				if err := e.cache.StoreMemoryVector(m.ID, vec); err != nil {
					e.logger.Debug().Err(err).Str("id", m.ID).Msg("Failed to store memory vector")
				}
			}
		}()
	}
	for _, m := range memories {
		jobs <- m
	}
	close(jobs)
	wg.Wait()
}

// embed encodes text through the cache when one is configured.
func (e *Engine) embed(ctx context.Context, text string) ([]float32, error) {
	if e.cache != nil {
		if vec, ok := e.cache.Get(text); ok {
			return vec, nil
		}
	}

	vec, err := e.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Put(text, vec); err != nil {
			e.logger.Debug().Err(err).Msg("Failed to cache embedding")
		}
	}
	return vec, nil
}
