// Package normalize canonicalizes book URLs for the source site.
// Every input is reduced to https://<host>/book/<id>/<chapter>, which is the
// basis for pagination discovery and chapter iteration.
package normalize

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/shameladocx/core"
)

const bookPrefix = "/book/"

// Normalizer validates book URLs against a single source host.
type Normalizer struct {
	host string
}

// New creates a Normalizer for the given host.
// An empty host falls back to core.DefaultHost.
func New(host string) *Normalizer {
	if host == "" {
		host = core.DefaultHost
	}
	return &Normalizer{host: host}
}

// Host returns the source host this normalizer accepts.
func (n *Normalizer) Host() string {
	return n.host
}

// Normalize converts an arbitrary book URL into the canonical chapter URL.
// A missing chapter segment defaults to chapter 1.
func (n *Normalizer) Normalize(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: %q must begin with https://%s/book/", core.ErrInvalidURL, raw, n.host)
	}
	if parsed.Host != n.host || !strings.HasPrefix(parsed.Path, bookPrefix) {
		return "", fmt.Errorf("%w: %q must begin with https://%s/book/", core.ErrInvalidURL, raw, n.host)
	}

	path := parsed.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	// "/book/<id>/<chapter>/" splits into "", "book", id, chapter, "".
	segments := strings.Split(path, "/")
	if len(segments) < 4 || segments[2] == "" {
		return "", fmt.Errorf("%w: incorrect URL format %q", core.ErrInvalidURL, raw)
	}

	identifier := segments[2]
	chapter := "1"
	if len(segments) >= 5 && segments[3] != "" {
		chapter = segments[3]
	}
	number, err := strconv.Atoi(chapter)
	if err != nil || number < 1 {
		return "", fmt.Errorf("%w: chapter %q is not a positive number", core.ErrInvalidURL, chapter)
	}

	return ChapterURL(n.host, identifier, number), nil
}

// ChapterNumber returns the chapter segment of a /book/<id>/<chapter> URL.
// Relative URLs are accepted since pagination links are often relative.
func ChapterNumber(raw string) (int, error) {
	segment, err := pathSegment(raw, 3)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrPaginationNotFound, err)
	}
	n, err := strconv.Atoi(segment)
	if err != nil {
		return 0, fmt.Errorf("%w: chapter segment %q in %q is not a number", core.ErrPaginationNotFound, segment, raw)
	}
	return n, nil
}

// Identifier returns the book identifier of a /book/<id>/... URL.
func Identifier(raw string) (string, error) {
	id, err := pathSegment(raw, 2)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrInvalidURL, err)
	}
	return id, nil
}

// RootURL returns the book's landing page, which holds the title and index.
func RootURL(host, identifier string) string {
	return fmt.Sprintf("https://%s/book/%s/", host, identifier)
}

// ChapterURL returns the URL of a single chapter page.
func ChapterURL(host, identifier string, chapter int) string {
	return fmt.Sprintf("https://%s/book/%s/%d", host, identifier, chapter)
}

func pathSegment(raw string, index int) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	segments := strings.Split(parsed.Path, "/")
	if len(segments) <= index || segments[index] == "" {
		return "", fmt.Errorf("%q has no path segment %d", raw, index)
	}
	return segments[index], nil
}
