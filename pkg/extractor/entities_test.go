package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/memory"
)

func TestParseEntities(t *testing.T) {
	t.Run("plain array", func(t *testing.T) {
		entities, err := parseEntities(`[{"type": "person", "text": "Alice"}, {"type": "location", "text": "Berlin"}]`)
		require.NoError(t, err)
		require.Len(t, entities, 2)
		assert.Equal(t, memory.EntityPerson, entities[0].Type)
		assert.Equal(t, "Alice", entities[0].Text)
		assert.Equal(t, memory.EntityLocation, entities[1].Type)
	})

	t.Run("fenced output tolerated", func(t *testing.T) {
		entities, err := parseEntities("```json\n[{\"type\": \"date\", \"text\": \"2024-03-01\"}]\n```")
		require.NoError(t, err)
		require.Len(t, entities, 1)
		assert.Equal(t, memory.EntityDate, entities[0].Type)
	})

	t.Run("unknown kind normalized", func(t *testing.T) {
		entities, err := parseEntities(`[{"type": "event", "text": "birthday"}]`)
		require.NoError(t, err)
		require.Len(t, entities, 1)
		assert.Equal(t, memory.EntityUnknown, entities[0].Type)
	})

	t.Run("blank text dropped", func(t *testing.T) {
		entities, err := parseEntities(`[{"type": "person", "text": "  "}]`)
		require.NoError(t, err)
		assert.Empty(t, entities)
	})

	t.Run("empty response", func(t *testing.T) {
		entities, err := parseEntities("")
		require.NoError(t, err)
		assert.Nil(t, entities)
	})

	t.Run("empty array", func(t *testing.T) {
		entities, err := parseEntities("[]")
		require.NoError(t, err)
		assert.Empty(t, entities)
	})

	t.Run("prose instead of json", func(t *testing.T) {
		_, err := parseEntities("I found these entities: Alice")
		assert.Error(t, err)
	})
}

func TestNewAnthropicTagger(t *testing.T) {
	t.Run("missing key rejected", func(t *testing.T) {
		_, err := NewAnthropicTagger("", "")
		assert.Error(t, err)
	})

	t.Run("default model applied", func(t *testing.T) {
		tagger, err := NewAnthropicTagger("test-key", "")
		require.NoError(t, err)
		assert.NotEmpty(t, tagger.model)
	})
}
