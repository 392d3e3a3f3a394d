package search

import (
	"sort"
	"strings"

	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/memory"
)

// Lexical scoring weights. A title hit counts once per query token; content
// hits count per occurrence; entity hits count per matching entity per
// token.
const (
	titleMatchScore   = 10
	contentMatchScore = 2
	entityMatchScore  = 5
)

// LexicalScore computes the deterministic keyword score of one memory for
// a pre-tokenized query. This is the single shared scoring function; no
// caller maintains its own copy.
func LexicalScore(m memory.Memory, tokens []string) int {
	title := strings.ToLower(m.Title)
	content := strings.ToLower(m.Content)

	score := 0
	for _, token := range tokens {
		if strings.Contains(title, token) {
			score += titleMatchScore
		}
		score += contentMatchScore * strings.Count(content, token)
		for _, entity := range m.Entities {
			if strings.Contains(strings.ToLower(entity.Text), token) {
				score += entityMatchScore
			}
		}
	}
	return score
}

// LexicalSearch ranks memories by keyword score, discarding zero scores.
// Ties keep input order. An empty query matches nothing.
func LexicalSearch(query string, memories []memory.Memory, topK int) []memory.Memory {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 || len(memories) == 0 {
		return []memory.Memory{}
	}

	type scored struct {
		mem   memory.Memory
		score int
	}

	results := make([]scored, 0, len(memories))
	for _, m := range memories {
		if s := LexicalScore(m, tokens); s > 0 {
			results = append(results, scored{mem: m, score: s})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	ranked := make([]memory.Memory, len(results))
	for i, r := range results {
		ranked[i] = r.mem
	}
	return ranked
}
