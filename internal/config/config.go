package config

import (
	"path/filepath"
)

// Config is the application configuration.
type Config struct {
	// Data directory for the snapshot and embedding cache
	DataDir string `json:"data_dir" mapstructure:"data_dir"`

	// Indexing configuration
	Indexing IndexingConfig `json:"indexing" mapstructure:"indexing"`

	// Search configuration
	Search SearchConfig `json:"search" mapstructure:"search"`

	// Entity tagging configuration
	Entities EntitiesConfig `json:"entities" mapstructure:"entities"`

	// Gateway configuration
	Gateway GatewayConfig `json:"gateway" mapstructure:"gateway"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// IndexingConfig controls the file walker.
type IndexingConfig struct {
	// Roots are the directories indexed by `serve` and the scheduler.
	Roots []string `json:"roots" mapstructure:"roots"`
	// AllowedExtensions overrides the built-in extension table allow-list.
	AllowedExtensions []string `json:"allowed_extensions" mapstructure:"allowed_extensions"`
	Workers           int      `json:"workers" mapstructure:"workers"`
	// Schedule is a cron expression for periodic reindexing; empty disables it.
	Schedule string `json:"schedule" mapstructure:"schedule"`
	// Watch enables filesystem-change-triggered reindexing in serve mode.
	Watch bool `json:"watch" mapstructure:"watch"`
}

// SearchConfig controls ranking.
type SearchConfig struct {
	TopK int `json:"top_k" mapstructure:"top_k"`
	// Provider selects the embedding backend: openai, ollama or none.
	Provider     string `json:"provider" mapstructure:"provider"`
	OpenAIAPIKey string `json:"openai_api_key" mapstructure:"openai_api_key"`
	OpenAIModel  string `json:"openai_model" mapstructure:"openai_model"`
	OllamaHost   string `json:"ollama_host" mapstructure:"ollama_host"`
	OllamaModel  string `json:"ollama_model" mapstructure:"ollama_model"`
	Workers      int    `json:"workers" mapstructure:"workers"`
	// CacheEnabled persists embeddings in a local sqlite cache.
	CacheEnabled bool `json:"cache_enabled" mapstructure:"cache_enabled"`
}

// EntitiesConfig controls the optional entity tagger.
type EntitiesConfig struct {
	Enabled         bool   `json:"enabled" mapstructure:"enabled"`
	AnthropicAPIKey string `json:"anthropic_api_key" mapstructure:"anthropic_api_key"`
	Model           string `json:"model" mapstructure:"model"`
}

// GatewayConfig controls the HTTP gateway started by the serve command.
type GatewayConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the built-in defaults. DataDir-derived paths are
// filled in by the loader once DataDir is known.
func DefaultConfig() *Config {
	return &Config{
		Indexing: IndexingConfig{
			Workers: 4,
			Watch:   true,
		},
		Search: SearchConfig{
			TopK:         10,
			Provider:     "openai",
			OpenAIModel:  "text-embedding-3-small",
			OllamaHost:   "http://localhost:11434",
			OllamaModel:  "nomic-embed-text",
			Workers:      4,
			CacheEnabled: true,
		},
		Gateway: GatewayConfig{
			Host: "127.0.0.1",
			Port: 8480,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
	}
}

// SnapshotPath returns the snapshot file location under the data directory.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "memories.json")
}

// CachePath returns the embedding cache location under the data directory.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, "embeddings.db")
}
