package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// requestLogger tags the request with a fresh request ID, echoed in the
// X-Request-ID header.
func (s *Server) requestLogger(w http.ResponseWriter, r *http.Request) zerolog.Logger {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)
	return s.logger.With().
		Str("requestId", requestID).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Logger()
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(w, r)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	memories, err := s.store.Load()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load snapshot")
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	results := s.engine.Search(r.Context(), req.Query, memories, req.TopK)

	logger.Debug().Str("query", req.Query).Int("results", len(results)).Msg("Search handled")

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:   req.Query,
		Mode:    string(s.engine.Mode()),
		Results: results,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(w, r)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req IndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	s.Broadcast("index.started", map[string]interface{}{"path": req.Path})

	start := time.Now()
	memories, err := s.indexer.Index(r.Context(), req.Path)
	if err != nil {
		logger.Error().Err(err).Str("path", req.Path).Msg("Indexing failed")
		writeError(w, http.StatusInternalServerError, "indexing failed")
		return
	}

	s.engine.IndexVectors(r.Context(), memories)

	resp := IndexResponse{
		Path:       req.Path,
		Indexed:    len(memories),
		DurationMs: time.Since(start).Milliseconds(),
	}

	s.Broadcast("index.completed", resp)

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(w, r)

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	memories, err := s.store.Load()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load snapshot")
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Memories: len(memories),
		Mode:     string(s.engine.Mode()),
		Uptime:   time.Since(s.startTime).Round(time.Second).String(),
		Started:  s.startTime,
	})
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(w, r)

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.cache == nil {
		writeError(w, http.StatusNotFound, "related lookup requires the embedding cache")
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	k := 5
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "k must be an integer")
			return
		}
		k = parsed
	}

	related, err := s.cache.Related(id, k)
	if err != nil {
		logger.Warn().Err(err).Str("id", id).Msg("Related lookup failed")
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	memories, err := s.store.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	byID := make(map[string]int, len(memories))
	for i, m := range memories {
		byID[m.ID] = i
	}

	resp := RelatedResponse{MemoryID: id}
	for _, rel := range related {
		idx, ok := byID[rel.MemoryID]
		if !ok {
			continue
		}
		resp.Related = append(resp.Related, RelatedMemory{
			Memory:     memories[idx],
			Similarity: rel.Similarity,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
