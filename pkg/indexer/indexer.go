package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/harini-paramasivam/personal-memory-search-engine/internal/metrics"
	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/extractor"
	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/memory"
)

const defaultWorkers = 4

// Config holds indexer configuration.
type Config struct {
	Store             *memory.Store
	Registry          *extractor.Registry
	AllowedExtensions []string // default: every registered extension
	Workers           int
	Tagger            extractor.Tagger // optional entity tagging
	Logger            zerolog.Logger
}

// Indexer walks directory trees, dispatches files to content extractors
// and produces the memory snapshot.
type Indexer struct {
	store    *memory.Store
	registry *extractor.Registry
	allowed  map[string]bool
	workers  int
	tagger   extractor.Tagger
	logger   zerolog.Logger
}

// New creates an indexer.
func New(cfg Config) (*Indexer, error) {
	metrics.EnsureRegistered()

	if cfg.Store == nil {
		return nil, errors.New("snapshot store is required")
	}
	if cfg.Registry == nil {
		cfg.Registry = extractor.NewRegistry()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}

	exts := cfg.AllowedExtensions
	if len(exts) == 0 {
		exts = cfg.Registry.Extensions()
	}
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = true
	}

	return &Indexer{
		store:    cfg.Store,
		registry: cfg.Registry,
		allowed:  allowed,
		workers:  cfg.Workers,
		tagger:   cfg.Tagger,
		logger:   cfg.Logger,
	}, nil
}

// Allowed reports whether a file extension is eligible for indexing.
func (ix *Indexer) Allowed(ext string) bool {
	return ix.allowed[strings.ToLower(ext)]
}

// Index walks the directory, turns every eligible file into a memory and
// replaces the snapshot with the result. A nonexistent directory yields an
// empty result, not an error. Extraction failures are isolated per file
// and downgraded to stub records; they never abort the run.
func (ix *Indexer) Index(ctx context.Context, dir string) ([]memory.Memory, error) {
	runID, _ := gonanoid.New()
	start := time.Now()

	logger := ix.logger.With().Str("run", runID).Str("dir", dir).Logger()

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Warn().Msg("Directory does not exist, nothing to index")
		return []memory.Memory{}, nil
	}

	paths, err := ix.collectPaths(dir)
	if err != nil {
		metrics.RecordIndexRun(time.Since(start), 0, false)
		return nil, err
	}

	memories := ix.processFiles(ctx, paths)

	// Single synchronization point: one atomic full-replace write after
	// all workers complete.
	if err := ix.store.Save(memories); err != nil {
		metrics.RecordIndexRun(time.Since(start), len(memories), false)
		return nil, err
	}

	metrics.RecordIndexRun(time.Since(start), len(memories), true)
	metrics.SetMemoriesIndexed(len(memories))

	logger.Info().
		Int("files", len(memories)).
		Dur("duration", time.Since(start)).
		Msg("Indexing completed")

	return memories, nil
}

// collectPaths enumerates every eligible file under dir.
func (ix *Indexer) collectPaths(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			ix.logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable path")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if ix.Allowed(filepath.Ext(d.Name())) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// processFiles runs per-file indexing through a bounded worker pool and
// returns the results ordered by path so output is deterministic.
func (ix *Indexer) processFiles(ctx context.Context, paths []string) []memory.Memory {
	type item struct {
		path string
		mem  memory.Memory
	}

	jobs := make(chan string)
	results := make(chan item, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < ix.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- item{path: path, mem: ix.indexFile(ctx, path)}
			}
		}()
	}

	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()
	close(results)

	items := make([]item, 0, len(paths))
	for it := range results {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].path < items[j].path })

	memories := make([]memory.Memory, len(items))
	for i, it := range items {
		memories[i] = it.mem
	}
	return memories
}

// indexFile builds the memory record for one file. It always succeeds:
// extraction failures produce a stub record instead of an error.
func (ix *Indexer) indexFile(ctx context.Context, path string) memory.Memory {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	hash := sha256.Sum256([]byte(absPath))
	id := hex.EncodeToString(hash[:])

	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))

	modTime := time.Now()
	var size int64
	if info, err := os.Stat(path); err == nil {
		if !info.ModTime().IsZero() {
			modTime = info.ModTime()
		}
		size = info.Size()
	}

	reg, _ := ix.registry.Lookup(ext)

	raw := ix.extract(ctx, reg, path, name)

	title := raw.Title
	if title == "" {
		title = name
	}

	entities := raw.Entities
	if len(entities) == 0 && ix.tagger != nil && raw.Content != "" {
		tagged, err := ix.tagger.Tag(ctx, raw.Content)
		if err != nil {
			ix.logger.Warn().Err(err).Str("file", name).Msg("Entity tagging failed")
		} else {
			entities = tagged
		}
	}

	return memory.Memory{
		ID:            id,
		Type:          reg.Category,
		Title:         title,
		Content:       raw.Content,
		Entities:      entities,
		Date:          modTime,
		Source:        "local_file",
		FilePath:      absPath,
		FileName:      name,
		FileExtension: ext,
		FileSize:      size,
	}
}

// extract invokes the category's extractor and downgrades any failure to
// the stub record.
func (ix *Indexer) extract(ctx context.Context, reg extractor.Registration, path, name string) extractor.Raw {
	if reg.Extractor != nil {
		raw, err := reg.Extractor.Extract(ctx, path)
		if err == nil && raw != nil {
			return *raw
		}
		if err != nil {
			ix.logger.Warn().Err(err).Str("file", name).Msg("Extraction failed, using stub record")
		}
	}
	metrics.RecordExtractionFailure(string(reg.Category))
	return extractor.Raw{
		Title:   name,
		Content: "File: " + name,
	}
}
