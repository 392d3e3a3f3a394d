package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor extracts the <title> and visible text from a local HTML
// file.
type HTMLExtractor struct{}

// Extract parses the file as HTML and returns its title and a bounded
// text excerpt with markup stripped.
func (e *HTMLExtractor) Extract(ctx context.Context, path string) (*Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	title, text := walkHTML(doc)
	title = strings.TrimSpace(title)
	if title == "" {
		title = filepath.Base(path)
	}

	return &Raw{
		Title:   truncateRunes(title, 120),
		Content: truncateRunes(text, maxExcerptRunes),
	}, nil
}

// walkHTML collects the document title and visible text, skipping script
// and style subtrees.
func walkHTML(doc *html.Node) (title, text string) {
	var sb strings.Builder
	var visit func(n *html.Node, inTitle bool)
	visit = func(n *html.Node, inTitle bool) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				inTitle = true
			}
		case html.TextNode:
			t := strings.TrimSpace(n.Data)
			if t == "" {
				break
			}
			if inTitle {
				if title == "" {
					title = t
				}
				break
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(t)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c, inTitle)
		}
	}
	visit(doc, false)
	return title, sb.String()
}
