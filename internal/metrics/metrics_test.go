package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("registration is idempotent", func(t *testing.T) {
		EnsureRegistered()
		assert.NotPanics(t, EnsureRegistered)
	})

	t.Run("recording does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			RecordIndexRun(2*time.Second, 10, true)
			RecordIndexRun(time.Second, 0, false)
			RecordExtractionFailure("document")
			SetMemoriesIndexed(42)
			RecordSearch("lexical", 5*time.Millisecond)
			SetSearchMode("semantic")
			RecordEmbeddingCacheHit()
			RecordEmbeddingCacheMiss()
		})
	})

	t.Run("handler exposes recorded series", func(t *testing.T) {
		RecordIndexRun(time.Second, 3, true)
		SetSearchMode("lexical")

		req := httptest.NewRequest("GET", "/metrics", nil)
		rec := httptest.NewRecorder()
		Handler().ServeHTTP(rec, req)

		require.Equal(t, 200, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "index_runs_total")
		assert.Contains(t, body, "search_mode_active")
		assert.Contains(t, body, "memories_indexed")
	})
}
