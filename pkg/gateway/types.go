package gateway

import (
	"time"

	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/memory"
)

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// SearchResponse carries the ranked memories for one query.
type SearchResponse struct {
	Query   string          `json:"query"`
	Mode    string          `json:"mode"`
	Results []memory.Memory `json:"results"`
}

// IndexRequest is the body of POST /api/index.
type IndexRequest struct {
	Path string `json:"path"`
}

// IndexResponse summarizes one indexing run.
type IndexResponse struct {
	Path       string `json:"path"`
	Indexed    int    `json:"indexed"`
	DurationMs int64  `json:"duration_ms"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Memories int       `json:"memories"`
	Mode     string    `json:"mode"`
	Uptime   string    `json:"uptime"`
	Started  time.Time `json:"started"`
}

// RelatedResponse is the body of GET /api/related.
type RelatedResponse struct {
	MemoryID string          `json:"memory_id"`
	Related  []RelatedMemory `json:"related"`
}

// RelatedMemory pairs a memory with its similarity to the queried one.
type RelatedMemory struct {
	Memory     memory.Memory `json:"memory"`
	Similarity float64       `json:"similarity"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// EventMessage is one websocket event frame.
type EventMessage struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
