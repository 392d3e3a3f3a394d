package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
)

// snapshotSchema validates a snapshot file before it is unmarshaled, so a
// truncated or hand-edited file is rejected instead of half-loaded.
const snapshotSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "type", "title", "content", "date"],
		"properties": {
			"id":             {"type": "string", "minLength": 1},
			"type":           {"type": "string", "enum": ["document", "image", "audio", "web"]},
			"title":          {"type": "string"},
			"content":        {"type": "string"},
			"entities": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["type", "text"],
					"properties": {
						"type": {"type": "string"},
						"text": {"type": "string"}
					}
				}
			},
			"date":           {"type": "string"},
			"source":         {"type": "string"},
			"file_path":      {"type": "string"},
			"file_name":      {"type": "string"},
			"file_extension": {"type": "string"},
			"file_size":      {"type": "integer"}
		}
	}
}`

// Store persists the full memory collection as a single JSON array.
// Every save replaces the previous snapshot; there is no incremental update.
type Store struct {
	path   string
	schema *gojsonschema.Schema
	logger zerolog.Logger
}

// NewStore creates a snapshot store backed by the given file path.
func NewStore(path string, logger zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(snapshotSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile snapshot schema: %w", err)
	}

	return &Store{
		path:   path,
		schema: schema,
		logger: logger,
	}, nil
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the entire collection as one serialized unit. The write goes
// to a temp file in the same directory and is renamed into place, so a
// failed write never corrupts the previous snapshot.
func (s *Store) Save(memories []Memory) error {
	if memories == nil {
		memories = []Memory{}
	}

	data, err := json.Marshal(memories)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	s.logger.Debug().
		Int("memories", len(memories)).
		Str("path", s.path).
		Msg("Snapshot saved")

	return nil
}

// Load returns the saved collection, or an empty slice when no snapshot
// exists yet.
func (s *Store) Load() ([]Memory, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Memory{}, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to validate snapshot: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("snapshot %s is malformed: %s", s.path, result.Errors()[0])
	}

	var memories []Memory
	if err := json.Unmarshal(data, &memories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if memories == nil {
		memories = []Memory{}
	}

	return memories, nil
}
