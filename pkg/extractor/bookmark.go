package extractor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/memory"
)

// BookmarkFetcher captures a live web page into a web memory using a
// headless browser. It is invoked explicitly per URL and is not part of
// the directory walk.
type BookmarkFetcher struct {
	logger  zerolog.Logger
	timeout time.Duration
}

// NewBookmarkFetcher creates a bookmark fetcher.
func NewBookmarkFetcher(logger zerolog.Logger) *BookmarkFetcher {
	return &BookmarkFetcher{
		logger:  logger,
		timeout: 30 * time.Second,
	}
}

// Fetch loads the URL, extracts its title and visible text, and returns a
// web memory whose ID is the hash of the URL.
func (f *BookmarkFetcher) Fetch(ctx context.Context, url string) (*memory.Memory, error) {
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}

	browser := rod.New().Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	page = page.Timeout(f.timeout)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page load timeout: %w", err)
	}

	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to read page info: %w", err)
	}

	text, err := page.Eval(`() => document.body.innerText`)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	title := info.Title
	if title == "" {
		title = url
	}

	hash := sha256.Sum256([]byte(url))

	f.logger.Info().Str("url", url).Str("title", title).Msg("Bookmark captured")

	return &memory.Memory{
		ID:       hex.EncodeToString(hash[:]),
		Type:     memory.TypeWeb,
		Title:    truncateRunes(title, 120),
		Content:  truncateRunes(text.Value.String(), maxExcerptRunes),
		Date:     time.Now(),
		Source:   "bookmark",
		FilePath: url,
	}, nil
}
