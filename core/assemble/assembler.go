// Package assemble turns extracted fragments into a formatted document.
//
// Each fragment kind maps to a fixed set of formatting rules (font, size,
// weight, alignment). Once every fragment is appended, Finalize forces all
// paragraphs to right-to-left alignment and freezes the document.
package assemble

import (
	"errors"

	"github.com/gaurav-prasanna/shameladocx/core"
)

// ErrFinalized is returned when appending to a finalized document.
var ErrFinalized = errors.New("document already finalized")

// Style holds the typographic settings shared by the whole document.
type Style struct {
	Font      string
	TitleSize float64
	BodySize  float64
	Separator string
}

// DefaultStyle returns the formatting used for books from the source site.
func DefaultStyle() Style {
	return Style{
		Font:      "Calibri",
		TitleSize: 21,
		BodySize:  15,
		Separator: "-------------",
	}
}

// Assembler accumulates formatted paragraphs in order.
// It is not safe for concurrent use; each run owns its own Assembler.
type Assembler struct {
	style     Style
	doc       core.Document
	finalized bool
}

// New creates an Assembler. Zero fields in style take their defaults.
func New(style Style) *Assembler {
	def := DefaultStyle()
	if style.Font == "" {
		style.Font = def.Font
	}
	if style.TitleSize <= 0 {
		style.TitleSize = def.TitleSize
	}
	if style.BodySize <= 0 {
		style.BodySize = def.BodySize
	}
	if style.Separator == "" {
		style.Separator = def.Separator
	}
	return &Assembler{style: style}
}

// Append formats and appends fragments in the order given.
func (a *Assembler) Append(fragments ...core.Fragment) error {
	if a.finalized {
		return ErrFinalized
	}
	for _, f := range fragments {
		p := a.format(f)
		if f.Kind == core.KindTitle && a.doc.Title == "" {
			a.doc.Title = f.Text
		}
		a.doc.Paragraphs = append(a.doc.Paragraphs, p)
	}
	return nil
}

// AppendParagraph appends an already formatted paragraph as-is.
func (a *Assembler) AppendParagraph(p core.FormattedParagraph) error {
	if a.finalized {
		return ErrFinalized
	}
	a.doc.Paragraphs = append(a.doc.Paragraphs, p)
	return nil
}

// Len returns the number of paragraphs appended so far.
func (a *Assembler) Len() int {
	return len(a.doc.Paragraphs)
}

// Finalize forces every paragraph to right-to-left alignment, overriding any
// alignment set while appending, and returns the finished document.
// Later calls return the same document.
func (a *Assembler) Finalize() *core.Document {
	if !a.finalized {
		for i := range a.doc.Paragraphs {
			a.doc.Paragraphs[i].Align = core.AlignRightToLeft
		}
		a.finalized = true
	}
	doc := a.doc
	doc.Paragraphs = append([]core.FormattedParagraph(nil), a.doc.Paragraphs...)
	return &doc
}

func (a *Assembler) format(f core.Fragment) core.FormattedParagraph {
	p := core.FormattedParagraph{Kind: f.Kind, Text: f.Text}

	switch f.Kind {
	case core.KindTitle:
		p.Font = a.style.Font
		p.Size = a.style.TitleSize
		p.Bold = true
	case core.KindHeading:
		p.Font = a.style.Font
		p.Size = a.style.BodySize
		p.Bold = true
	case core.KindParagraph, core.KindListItem:
		p.Font = a.style.Font
		p.Size = a.style.BodySize
		p.Align = core.AlignRightToLeft
	case core.KindSeparator:
		p.Text = a.style.Separator
		p.Align = core.AlignRight
	case core.KindPageBreak:
		p.Text = ""
		p.PageBreak = true
	}
	return p
}
