package gateway

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/indexer"
	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/memory"
	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/search"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()

	store, err := memory.NewStore(filepath.Join(t.TempDir(), "memories.json"), zerolog.Nop())
	require.NoError(t, err)

	ix, err := indexer.New(indexer.Config{Store: store, Logger: zerolog.Nop()})
	require.NoError(t, err)

	engine := search.New(search.Config{Logger: zerolog.Nop()})

	s, err := NewServer(Options{}, engine, ix, store, nil, zerolog.Nop())
	require.NoError(t, err)
	return s, store
}

func seedSnapshot(t *testing.T, store *memory.Store) {
	t.Helper()
	require.NoError(t, store.Save([]memory.Memory{
		{
			ID:      "taxes",
			Type:    memory.TypeDocument,
			Title:   "Tax documents 2023",
			Content: "Filed taxes in April",
			Date:    time.Now(),
		},
		{
			ID:      "photos",
			Type:    memory.TypeImage,
			Title:   "Vacation photos",
			Content: "Image file: beach.png",
			Date:    time.Now(),
		},
	}))
}

func TestNewServer(t *testing.T) {
	t.Run("requires components", func(t *testing.T) {
		_, err := NewServer(Options{}, nil, nil, nil, nil, zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		s, _ := newTestServer(t)
		assert.Equal(t, "127.0.0.1", s.options.Host)
		assert.Equal(t, 8480, s.options.Port)
	})
}

func TestHandleSearch(t *testing.T) {
	s, store := newTestServer(t)
	seedSnapshot(t, store)

	t.Run("returns ranked results", func(t *testing.T) {
		body, _ := json.Marshal(SearchRequest{Query: "tax"})
		req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		s.handleSearch(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

		var resp SearchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "tax", resp.Query)
		assert.Equal(t, "lexical", resp.Mode)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "taxes", resp.Results[0].ID)
	})

	t.Run("empty query yields empty results", func(t *testing.T) {
		body, _ := json.Marshal(SearchRequest{Query: ""})
		req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		s.handleSearch(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp SearchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Results)
	})

	t.Run("rejects GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
		rec := httptest.NewRecorder()

		s.handleSearch(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()

		s.handleSearch(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleIndex(t *testing.T) {
	s, store := newTestServer(t)

	t.Run("indexes a directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "note.txt"), []byte("Title\nbody"), 0644))

		body, _ := json.Marshal(IndexRequest{Path: dir})
		req := httptest.NewRequest(http.MethodPost, "/api/index", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		s.handleIndex(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp IndexResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Indexed)

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Len(t, loaded, 1)
	})

	t.Run("path required", func(t *testing.T) {
		body, _ := json.Marshal(IndexRequest{})
		req := httptest.NewRequest(http.MethodPost, "/api/index", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		s.handleIndex(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleStatus(t *testing.T) {
	s, store := newTestServer(t)
	seedSnapshot(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()

	s.handleStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Memories)
	assert.Equal(t, "lexical", resp.Mode)
	assert.False(t, resp.Started.IsZero())
}

func TestHandleRelated(t *testing.T) {
	t.Run("404 without cache", func(t *testing.T) {
		s, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/api/related?id=taxes", nil)
		rec := httptest.NewRecorder()

		s.handleRelated(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("id required", func(t *testing.T) {
		s, store := newTestServer(t)
		cache, err := search.OpenCache(filepath.Join(t.TempDir(), "c.db"), 3, zerolog.Nop())
		require.NoError(t, err)
		defer cache.Close()
		s.cache = cache
		seedSnapshot(t, store)

		req := httptest.NewRequest(http.MethodGet, "/api/related", nil)
		rec := httptest.NewRecorder()

		s.handleRelated(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("joins neighbors with snapshot", func(t *testing.T) {
		s, store := newTestServer(t)
		cache, err := search.OpenCache(filepath.Join(t.TempDir(), "c.db"), 3, zerolog.Nop())
		require.NoError(t, err)
		defer cache.Close()
		s.cache = cache
		seedSnapshot(t, store)

		require.NoError(t, cache.StoreMemoryVector("taxes", []float32{1, 0, 0}))
		require.NoError(t, cache.StoreMemoryVector("photos", []float32{0.9, 0.1, 0}))

		req := httptest.NewRequest(http.MethodGet, "/api/related?id=taxes&k=3", nil)
		rec := httptest.NewRecorder()

		s.handleRelated(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp RelatedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "taxes", resp.MemoryID)
		require.Len(t, resp.Related, 1)
		assert.Equal(t, "photos", resp.Related[0].Memory.ID)
		assert.Equal(t, "Vacation photos", resp.Related[0].Memory.Title)
	})
}
