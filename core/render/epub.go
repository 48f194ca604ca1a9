package render

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmaupin/go-epub"

	"github.com/gaurav-prasanna/shameladocx/core"
)

// EPUBRenderer renders the document as an EPUB book. Every page break
// starts a new section.
type EPUBRenderer struct {
	Author   string
	Language string
}

// NewEPUBRenderer creates an EPUBRenderer for Arabic books.
func NewEPUBRenderer() *EPUBRenderer {
	return &EPUBRenderer{Language: "ar"}
}

// Render converts the document into EPUB bytes.
func (r *EPUBRenderer) Render(doc *core.Document) ([]byte, error) {
	title := doc.Title
	if title == "" {
		title = "Untitled"
	}

	e := epub.NewEpub(title)
	if r.Author != "" {
		e.SetAuthor(r.Author)
	}
	if r.Language != "" {
		e.SetLang(r.Language)
	}

	for i, s := range splitSections(doc) {
		name := s.title
		if name == "" {
			name = fmt.Sprintf("%s %d", title, i+1)
		}
		body := `<div dir="rtl">` + s.body.String() + `</div>`
		if _, err := e.AddSection(body, name, fmt.Sprintf("section%04d.xhtml", i+1), ""); err != nil {
			return nil, fmt.Errorf("adding epub section %d: %w", i+1, err)
		}
	}

	dir, err := os.MkdirTemp("", "shameladocx-epub-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "book.epub")
	if err := e.Write(path); err != nil {
		return nil, fmt.Errorf("writing epub: %w", err)
	}
	return os.ReadFile(path)
}

// Extension returns the file extension for EPUB output.
func (r *EPUBRenderer) Extension() string {
	return ".epub"
}

type section struct {
	title string
	body  strings.Builder
}

// splitSections groups paragraphs into sections at page breaks. The first
// heading or title of a section names it.
func splitSections(doc *core.Document) []*section {
	cur := &section{}
	sections := []*section{cur}
	for _, p := range doc.Paragraphs {
		if p.PageBreak {
			cur = &section{}
			sections = append(sections, cur)
			continue
		}
		text := html.EscapeString(p.Text)
		switch p.Kind {
		case core.KindTitle:
			fmt.Fprintf(&cur.body, "<h1>%s</h1>", text)
		case core.KindHeading:
			fmt.Fprintf(&cur.body, "<h2>%s</h2>", text)
		case core.KindSeparator:
			cur.body.WriteString("<hr/>")
			continue
		default:
			fmt.Fprintf(&cur.body, "<p>%s</p>", text)
			continue
		}
		if cur.title == "" {
			cur.title = p.Text
		}
	}

	out := sections[:0]
	for _, s := range sections {
		if s.body.Len() > 0 {
			out = append(out, s)
		}
	}
	return out
}
