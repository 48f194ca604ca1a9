// Package crawl discovers the extent of a book and plans the chapter fetches.
// The site-specific pagination heuristic lives behind the Resolver interface
// so it can be replaced without touching the pipeline.
package crawl

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/gaurav-prasanna/shameladocx/core"
)

// Resolver finds the URL of the last chapter of a book.
type Resolver interface {
	LastPage(ctx context.Context, chapterURL string) (string, error)
}

// ContainerResolver reads the last link of a numbered block inside the
// page's pagination container.
type ContainerResolver struct {
	fetcher   core.Fetcher
	container cascadia.Selector
	block     int
	link      cascadia.Selector
}

// NewContainerResolver compiles the pagination selectors from a layout.
func NewContainerResolver(fetcher core.Fetcher, layout core.Layout) (*ContainerResolver, error) {
	container, err := cascadia.Compile(layout.Pagination)
	if err != nil {
		return nil, fmt.Errorf("compiling pagination selector %q: %w", layout.Pagination, err)
	}
	link, err := cascadia.Compile(layout.PaginationLink)
	if err != nil {
		return nil, fmt.Errorf("compiling pagination link selector %q: %w", layout.PaginationLink, err)
	}
	if layout.PaginationBlock < 0 {
		return nil, fmt.Errorf("pagination block index must be >= 0 (got %d)", layout.PaginationBlock)
	}
	return &ContainerResolver{
		fetcher:   fetcher,
		container: container,
		block:     layout.PaginationBlock,
		link:      link,
	}, nil
}

// LastPage fetches chapterURL and returns the absolute URL of the last page.
// Fetch failures are returned as-is; any missing piece of markup wraps
// core.ErrPaginationNotFound.
func (r *ContainerResolver) LastPage(ctx context.Context, chapterURL string) (string, error) {
	result, err := r.fetcher.Fetch(ctx, chapterURL)
	if err != nil {
		return "", fmt.Errorf("resolving last page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", core.ErrPaginationNotFound, chapterURL, err)
	}

	container := doc.FindMatcher(r.container).First()
	if container.Length() == 0 {
		return "", fmt.Errorf("%w: no pagination container on %s", core.ErrPaginationNotFound, chapterURL)
	}

	blocks := container.Find("div")
	if blocks.Length() <= r.block {
		return "", fmt.Errorf("%w: pagination container has %d nested blocks, need %d",
			core.ErrPaginationNotFound, blocks.Length(), r.block+1)
	}

	last := blocks.Eq(r.block).FindMatcher(r.link).Last()
	if last.Length() == 0 {
		return "", fmt.Errorf("%w: no link in pagination block on %s", core.ErrPaginationNotFound, chapterURL)
	}

	href, ok := last.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", fmt.Errorf("%w: last pagination link has no href", core.ErrPaginationNotFound)
	}

	resolved := resolveURL(strings.TrimSpace(href), chapterURL)
	if resolved == "" {
		return "", fmt.Errorf("%w: unusable pagination href %q", core.ErrPaginationNotFound, href)
	}
	return resolved, nil
}
