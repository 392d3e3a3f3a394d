package search

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/harini-paramasivam/personal-memory-search-engine/internal/metrics"
)

func init() {
	// Auto-register sqlite-vec extension
	sqlite_vec.Auto()
}

// Cache persists text embeddings between runs and holds one content vector
// per memory for nearest-neighbor lookup. It is a performance layer only:
// the snapshot of record stays a flat JSON file, and a nil cache simply
// means every encode hits the provider.
type Cache struct {
	db     *sql.DB
	dims   int
	logger zerolog.Logger
}

// OpenCache opens (or creates) the cache database.
func OpenCache(path string, dims int, logger zerolog.Logger) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("cache path is required")
	}
	if dims <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS embedding_cache (
			content_hash TEXT PRIMARY KEY,
			embedding BLOB NOT NULL,
			dimension INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_cache_created ON embedding_cache(created_at);

		CREATE VIRTUAL TABLE IF NOT EXISTS memory_vectors USING vec0(
			memory_id TEXT PRIMARY KEY,
			embedding float[%d] distance_metric=cosine
		);
	`, dims)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &Cache{db: db, dims: dims, logger: logger}, nil
}

// Get returns the cached embedding for a text, if present.
func (c *Cache) Get(text string) ([]float32, bool) {
	var blob []byte
	err := c.db.QueryRow(
		"SELECT embedding FROM embedding_cache WHERE content_hash = ?",
		contentHash(text),
	).Scan(&blob)
	if err != nil {
		metrics.RecordEmbeddingCacheMiss()
		return nil, false
	}

	var vec []float32
	if err := json.Unmarshal(blob, &vec); err != nil {
		c.logger.Warn().Err(err).Msg("Corrupt cache entry, ignoring")
		metrics.RecordEmbeddingCacheMiss()
		return nil, false
	}

	metrics.RecordEmbeddingCacheHit()
	return vec, true
}

// Put stores an embedding for a text.
func (c *Cache) Put(text string, vec []float32) error {
	blob, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO embedding_cache (content_hash, embedding, dimension, created_at) VALUES (?, ?, ?, ?)",
		contentHash(text), blob, len(vec), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache embedding: %w", err)
	}
	return nil
}

// StoreMemoryVector stores (or replaces) the content vector for a memory.
func (c *Cache) StoreMemoryVector(memoryID string, vec []float32) error {
	if len(vec) != c.dims {
		return fmt.Errorf("vector dimension %d does not match cache dimension %d", len(vec), c.dims)
	}

	blob, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	// vec0 virtual tables do not support INSERT OR REPLACE, so replace
	// explicitly with a delete followed by an insert.
	if _, err := c.db.Exec(
		"DELETE FROM memory_vectors WHERE memory_id = ?", memoryID,
	); err != nil {
		return fmt.Errorf("failed to store memory vector: %w", err)
	}
	_, err = c.db.Exec(
		"INSERT INTO memory_vectors (memory_id, embedding) VALUES (?, ?)",
		memoryID, string(blob),
	)
	if err != nil {
		return fmt.Errorf("failed to store memory vector: %w", err)
	}
	return nil
}

// RelatedResult is one nearest-neighbor match.
type RelatedResult struct {
	MemoryID   string  `json:"memory_id"`
	Similarity float64 `json:"similarity"`
}

// Related returns the memories most similar to the given one, best first,
// using cosine distance over the stored content vectors.
func (c *Cache) Related(memoryID string, k int) ([]RelatedResult, error) {
	if k <= 0 {
		k = 5
	}

	// vec0 returns embeddings as raw float32 blobs; keep the value as a
	// []byte so it is bound back as a BLOB, not TEXT.
	var blob []byte
	err := c.db.QueryRow(
		"SELECT embedding FROM memory_vectors WHERE memory_id = ?",
		memoryID,
	).Scan(&blob)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no vector stored for memory %s", memoryID)
		}
		return nil, fmt.Errorf("failed to load memory vector: %w", err)
	}

	rows, err := c.db.Query(`
		SELECT memory_id, vec_distance_cosine(embedding, ?) AS distance
		FROM memory_vectors
		WHERE memory_id != ?
		ORDER BY distance ASC
		LIMIT ?
	`, blob, memoryID, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query related memories: %w", err)
	}
	defer rows.Close()

	var results []RelatedResult
	for rows.Next() {
		var id string
		var distance float64
		if err := rows.Scan(&id, &distance); err != nil {
			return nil, err
		}
		results = append(results, RelatedResult{
			MemoryID:   id,
			Similarity: 1.0 - distance,
		})
	}
	return results, rows.Err()
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func contentHash(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
