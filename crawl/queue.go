// Package crawl — chapter plan.
// Turns a resolved BookRef into the ordered list of chapter URLs to fetch.
package crawl

import (
	"github.com/gaurav-prasanna/shameladocx/core"
	"github.com/gaurav-prasanna/shameladocx/core/normalize"
)

// ChapterPage pairs a chapter number with its URL.
type ChapterPage struct {
	Number int
	URL    string
}

// Plan returns the chapter pages of ref in ascending order.
// An inverted range yields an empty plan.
func Plan(host string, ref core.BookRef) []ChapterPage {
	chapters := ref.Chapters()
	pages := make([]ChapterPage, 0, len(chapters))
	for _, n := range chapters {
		pages = append(pages, ChapterPage{
			Number: n,
			URL:    normalize.ChapterURL(host, ref.Identifier, n),
		})
	}
	return pages
}
