// Package render provides output renderers for assembled books.
// This file implements the Markdown renderer: the document is laid out as
// right-to-left HTML and converted with html-to-markdown.
package render

import (
	"fmt"
	"html"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/gaurav-prasanna/shameladocx/core"
)

// MarkdownRenderer writes the document as Markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts the document into Markdown bytes.
func (r *MarkdownRenderer) Render(doc *core.Document) ([]byte, error) {
	markdown, err := htmltomarkdown.ConvertString(documentHTML(doc))
	if err != nil {
		return nil, fmt.Errorf("converting document to markdown: %w", err)
	}
	return []byte(markdown), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// documentHTML lays out paragraphs as an HTML fragment. Consecutive list
// items share one list; separators and page breaks become rules.
func documentHTML(doc *core.Document) string {
	var b strings.Builder
	b.WriteString(`<div dir="rtl">`)
	inList := false
	for _, p := range doc.Paragraphs {
		if p.Kind != core.KindListItem && inList {
			b.WriteString("</ul>")
			inList = false
		}
		text := html.EscapeString(p.Text)
		switch {
		case p.PageBreak, p.Kind == core.KindSeparator:
			b.WriteString("<hr/>")
		case p.Kind == core.KindTitle:
			fmt.Fprintf(&b, "<h1>%s</h1>", text)
		case p.Kind == core.KindHeading:
			fmt.Fprintf(&b, "<h2>%s</h2>", text)
		case p.Kind == core.KindListItem:
			if !inList {
				b.WriteString("<ul>")
				inList = true
			}
			fmt.Fprintf(&b, "<li>%s</li>", text)
		case p.Bold:
			fmt.Fprintf(&b, "<p><strong>%s</strong></p>", text)
		default:
			fmt.Fprintf(&b, "<p>%s</p>", text)
		}
	}
	if inList {
		b.WriteString("</ul>")
	}
	b.WriteString("</div>")
	return b.String()
}
