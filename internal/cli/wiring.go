package cli

import (
	"fmt"

	"github.com/harini-paramasivam/personal-memory-search-engine/internal/config"
	"github.com/harini-paramasivam/personal-memory-search-engine/internal/logger"
	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/extractor"
	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/indexer"
	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/memory"
	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/search"
)

// extOverride narrows the indexing allow-list for a single invocation.
var extOverride []string

// app bundles the wired application components shared by the commands.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	store  *memory.Store
	index  *indexer.Indexer
	engine *search.Engine
	cache  *search.Cache
}

// buildApp loads config and wires the components. The search engine is
// constructed here, once per process, which is also where the ranking mode
// is decided for good.
func buildApp() (*app, error) {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	lg, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return nil, err
	}
	zl := lg.Zerolog()

	store, err := memory.NewStore(cfg.SnapshotPath(), zl)
	if err != nil {
		return nil, err
	}

	var tagger extractor.Tagger
	if cfg.Entities.Enabled {
		t, err := extractor.NewAnthropicTagger(cfg.Entities.AnthropicAPIKey, cfg.Entities.Model)
		if err != nil {
			zl.Warn().Err(err).Msg("Entity tagging disabled")
		} else {
			tagger = t
		}
	}

	allowedExts := cfg.Indexing.AllowedExtensions
	if len(extOverride) > 0 {
		allowedExts = extOverride
	}

	ix, err := indexer.New(indexer.Config{
		Store:             store,
		Registry:          extractor.NewRegistry(),
		AllowedExtensions: allowedExts,
		Workers:           cfg.Indexing.Workers,
		Tagger:            tagger,
		Logger:            zl,
	})
	if err != nil {
		return nil, err
	}

	factory := providerFactory(cfg)

	var cache *search.Cache
	if cfg.Search.CacheEnabled && factory != nil {
		c, err := search.OpenCache(cfg.CachePath(), providerDims(cfg), zl)
		if err != nil {
			zl.Warn().Err(err).Msg("Embedding cache disabled")
		} else {
			cache = c
		}
	}

	engine := search.New(search.Config{
		ProviderFactory: factory,
		Cache:           cache,
		Workers:         cfg.Search.Workers,
		Logger:          zl,
	})

	return &app{
		cfg:    cfg,
		log:    lg,
		store:  store,
		index:  ix,
		engine: engine,
		cache:  cache,
	}, nil
}

// providerFactory maps the configured provider name to a factory. A nil
// factory means lexical ranking from the start.
func providerFactory(cfg *config.Config) search.ProviderFactory {
	switch cfg.Search.Provider {
	case "openai":
		return func() (search.Provider, error) {
			return search.NewOpenAIProvider(cfg.Search.OpenAIAPIKey, cfg.Search.OpenAIModel)
		}
	case "ollama":
		return func() (search.Provider, error) {
			return search.NewOllamaProvider(cfg.Search.OllamaHost, cfg.Search.OllamaModel)
		}
	default:
		return nil
	}
}

func providerDims(cfg *config.Config) int {
	switch cfg.Search.Provider {
	case "openai":
		if cfg.Search.OpenAIModel == "text-embedding-3-large" {
			return 3072
		}
		return 1536
	case "ollama":
		if cfg.Search.OllamaModel == "all-minilm" {
			return 384
		}
		return 768
	}
	return 0
}

// close releases app resources.
func (a *app) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			fmt.Println("warning: failed to close embedding cache:", err)
		}
	}
	a.log.Close()
}
