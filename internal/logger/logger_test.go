package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "app.log")

		l, err := New(Config{Level: "info", File: path})
		require.NoError(t, err)
		defer l.Close()

		zl := l.Zerolog()
		zl.Info().Str("key", "value").Msg("hello")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"key":"value"`)
		assert.Contains(t, string(data), "hello")
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")

		l, err := New(Config{Level: "loud", File: path})
		require.NoError(t, err)
		defer l.Close()

		zl := l.Zerolog()
		zl.Debug().Msg("quiet")
		zl.Info().Msg("audible")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "quiet")
		assert.Contains(t, string(data), "audible")
	})

	t.Run("level filters output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")

		l, err := New(Config{Level: "error", File: path})
		require.NoError(t, err)
		defer l.Close()

		zl := l.Zerolog()
		zl.Warn().Msg("ignored")
		zl.Error().Msg("recorded")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "ignored")
		assert.Contains(t, string(data), "recorded")
	})

	t.Run("no outputs configured still works", func(t *testing.T) {
		l, err := New(Config{Level: "info"})
		require.NoError(t, err)
		defer l.Close()
		zl := l.Zerolog()
		zl.Info().Msg("stdout only")
	})
}
