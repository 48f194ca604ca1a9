// Package extract pulls book content out of a parsed page.
// It produces core.Fragment values in document order from three regions:
//  1. the book title (first <h1>)
//  2. the index block on the book's landing page (headings and list items)
//  3. the content block on every chapter page (headings and paragraphs)
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/shameladocx/core"
)

// bracketSwap inverts bracket direction for right-to-left reading order.
var bracketSwap = strings.NewReplacer(
	"(", "]",
	")", "[",
	"«", "]",
	"»", "[",
)

// HTMLExtractor extracts fragments using selectors compiled from a core.Layout.
type HTMLExtractor struct {
	title          cascadia.Selector
	indexBlock     cascadia.Selector
	indexHeading   cascadia.Selector
	indexItem      cascadia.Selector
	content        cascadia.Selector
	contentHeading cascadia.Selector
}

// New compiles the layout's selectors into an HTMLExtractor.
func New(layout core.Layout) (*HTMLExtractor, error) {
	e := &HTMLExtractor{}
	selectors := []struct {
		name string
		src  string
		dst  *cascadia.Selector
	}{
		{"title", layout.Title, &e.title},
		{"index_block", layout.IndexBlock, &e.indexBlock},
		{"index_heading", layout.IndexHeading, &e.indexHeading},
		{"index_item", layout.IndexItem, &e.indexItem},
		{"content", layout.Content, &e.content},
		{"content_heading", layout.ContentHeading, &e.contentHeading},
	}
	for _, s := range selectors {
		sel, err := cascadia.Compile(s.src)
		if err != nil {
			return nil, fmt.Errorf("compiling %s selector %q: %w", s.name, s.src, err)
		}
		*s.dst = sel
	}
	return e, nil
}

// Parse builds a queryable document from raw HTML.
func (e *HTMLExtractor) Parse(rawHTML string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// Title returns the book title followed by a separator, or nothing when the
// page has no non-blank title element.
func (e *HTMLExtractor) Title(doc *goquery.Document) []core.Fragment {
	title := strings.TrimSpace(doc.FindMatcher(e.title).First().Text())
	if title == "" {
		return nil
	}
	return []core.Fragment{core.Title(title), core.Separator()}
}

// Index returns the book's metadata block: every heading, then every list
// item with surrounding dashes and spaces stripped.
func (e *HTMLExtractor) Index(doc *goquery.Document) ([]core.Fragment, error) {
	block := doc.FindMatcher(e.indexBlock).First()
	if block.Length() == 0 {
		return nil, fmt.Errorf("%w: index block", core.ErrContentNotFound)
	}

	var fragments []core.Fragment
	block.FindMatcher(e.indexHeading).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			fragments = append(fragments, core.Heading(text))
		}
	})
	block.FindMatcher(e.indexItem).Each(func(_ int, s *goquery.Selection) {
		if text := CleanListItem(s.Text()); text != "" {
			fragments = append(fragments, core.ListItem(text))
		}
	})
	return fragments, nil
}

// Body walks the direct children of the content block in document order.
// Sub-headings become headings; bare text and <p> children become paragraphs.
func (e *HTMLExtractor) Body(doc *goquery.Document) ([]core.Fragment, error) {
	block := doc.FindMatcher(e.content).First()
	if block.Length() == 0 {
		return nil, fmt.Errorf("%w: content block", core.ErrContentNotFound)
	}

	var fragments []core.Fragment
	block.Contents().Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		switch {
		case node.Type == html.TextNode:
			if text := strings.TrimSpace(node.Data); text != "" {
				fragments = append(fragments, core.Paragraph(FormatBodyText(text)))
			}
		case node.Type != html.ElementNode:
			return
		case e.contentHeading.Match(node):
			if text := strings.TrimSpace(s.Text()); text != "" {
				fragments = append(fragments, core.Heading(text))
			}
		case node.Data == "p":
			if text := strings.TrimSpace(s.Text()); text != "" {
				fragments = append(fragments, core.Paragraph(FormatBodyText(text)))
			}
		}
	})
	return fragments, nil
}

// FormatBodyText swaps parentheses and guillemets for their mirrored square
// brackets: ( and « become ], ) and » become [.
func FormatBodyText(text string) string {
	return bracketSwap.Replace(text)
}

// CleanListItem strips leading and trailing dashes and spaces. Interior
// dashes are kept.
func CleanListItem(text string) string {
	return strings.Trim(strings.TrimSpace(text), "- ")
}
