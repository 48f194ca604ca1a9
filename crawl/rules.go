// Package crawl — URL rules.
// Helpers to resolve and vet links found while walking a book.
package crawl

import (
	"net/url"
	"strings"
)

// IsSameHost checks if the given URL belongs to the specified host.
func IsSameHost(rawURL string, host string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return parsed.Host == host
}

// resolveURL resolves a potentially relative href against the page it was
// found on. Non-navigational links resolve to "".
func resolveURL(href string, pageURL string) string {
	// Skip mailto, javascript, etc.
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "#") {
		return ""
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}
