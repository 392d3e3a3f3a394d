package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		loader := NewLoader(filepath.Join(t.TempDir(), "memsearch.json"))

		cfg, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, 10, cfg.Search.TopK)
		assert.Equal(t, "openai", cfg.Search.Provider)
		assert.NotEmpty(t, cfg.DataDir)
		assert.NotEmpty(t, cfg.Logging.File)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "memsearch.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"data_dir": "/tmp/msdata",
			"search": {"top_k": 3, "provider": "ollama"},
			"indexing": {"workers": 2}
		}`), 0600))

		cfg, err := NewLoader(path).Load()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/msdata", cfg.DataDir)
		assert.Equal(t, 3, cfg.Search.TopK)
		assert.Equal(t, "ollama", cfg.Search.Provider)
		assert.Equal(t, 2, cfg.Indexing.Workers)
		// Untouched values keep their defaults.
		assert.Equal(t, 8480, cfg.Gateway.Port)
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "memsearch.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"search": {"provider": "bedrock"}}`), 0600))

		_, err := NewLoader(path).Load()
		assert.Error(t, err)
	})

	t.Run("secret env fallback", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")

		loader := NewLoader(filepath.Join(t.TempDir(), "memsearch.json"))
		cfg, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, "sk-test", cfg.Search.OpenAIAPIKey)
	})

	t.Run("file key wins over env", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-from-env")

		path := filepath.Join(t.TempDir(), "memsearch.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"search": {"openai_api_key": "sk-from-file"}}`), 0600))

		cfg, err := NewLoader(path).Load()
		require.NoError(t, err)
		assert.Equal(t, "sk-from-file", cfg.Search.OpenAIAPIKey)
	})
}

func TestLoaderSave(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "memsearch.json")
		loader := NewLoader(path)

		cfg := DefaultConfig()
		cfg.DataDir = "/tmp/msdata"
		cfg.Search.TopK = 7
		require.NoError(t, loader.Save(cfg))

		loaded, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, 7, loaded.Search.TopK)
		assert.Equal(t, "/tmp/msdata", loaded.DataDir)
	})

	t.Run("file mode restricts access", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "memsearch.json")
		require.NoError(t, NewLoader(path).Save(DefaultConfig()))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})
}
