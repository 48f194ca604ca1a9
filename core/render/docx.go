// Package render — DOCX renderer.
// Writes the assembled document as a Word file using go-docx.
// This is the default output format.
package render

import (
	"bytes"
	"fmt"
	"strconv"

	docx "github.com/fumiama/go-docx"

	"github.com/gaurav-prasanna/shameladocx/core"
)

// DOCXRenderer renders an assembled document as a .docx file.
type DOCXRenderer struct{}

// NewDOCXRenderer creates a DOCXRenderer.
func NewDOCXRenderer() *DOCXRenderer {
	return &DOCXRenderer{}
}

// Render converts the document into DOCX bytes, one Word paragraph per
// formatted paragraph.
func (r *DOCXRenderer) Render(doc *core.Document) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	for _, p := range doc.Paragraphs {
		para := w.AddParagraph()
		if p.PageBreak {
			para.AddPageBreaks()
		} else {
			run := para.AddText(p.Text)
			if p.Font != "" {
				run.Font(p.Font, p.Font, p.Font, "")
			}
			if p.Size > 0 {
				size := halfPoints(p.Size)
				run.Size(size).SizeCs(size)
			}
			if p.Bold {
				run.Bold()
			}
		}
		if jc := justification(p.Align); jc != "" {
			para.Justification(jc)
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing docx: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for DOCX output.
func (r *DOCXRenderer) Extension() string {
	return ".docx"
}

// halfPoints converts a point size to the half-point units Word uses.
func halfPoints(pt float64) string {
	return strconv.Itoa(int(pt*2 + 0.5))
}

// justification maps an alignment to a w:jc value.
func justification(a core.Alignment) string {
	switch a {
	case core.AlignLeft:
		return "left"
	case core.AlignRight, core.AlignRightToLeft:
		return "right"
	default:
		return ""
	}
}
