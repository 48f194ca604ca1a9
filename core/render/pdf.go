// Package render — PDF renderer.
// Renders the assembled document into a PDF using gofpdf.
// Arabic text needs a UTF-8 TrueType font, so a font file is required.
package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/shameladocx/core"
)

// ErrFontRequired is returned when PDF output is requested without a font file.
var ErrFontRequired = errors.New("pdf output requires a UTF-8 TrueType font file")

const pdfFamily = "body"

// PDFRenderer renders the document as a PDF document.
type PDFRenderer struct {
	FontPath string
}

// NewPDFRenderer creates a PDFRenderer that embeds the TrueType font at fontPath.
func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{FontPath: fontPath}
}

// Render converts the document into PDF bytes.
func (r *PDFRenderer) Render(doc *core.Document) ([]byte, error) {
	if r.FontPath == "" {
		return nil, ErrFontRequired
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddUTF8Font(pdfFamily, "", r.FontPath)
	pdf.AddUTF8Font(pdfFamily, "B", r.FontPath)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("loading font %s: %w", r.FontPath, err)
	}
	pdf.SetTitle(doc.Title, true)
	pdf.RTL()
	pdf.AddPage()

	for _, p := range doc.Paragraphs {
		if p.PageBreak {
			pdf.AddPage()
			continue
		}

		size := p.Size
		if size <= 0 {
			size = 12
		}
		style := ""
		if p.Bold {
			style = "B"
		}
		pdf.SetFont(pdfFamily, style, size)
		pdf.MultiCell(0, size*0.5, p.Text, "", pdfAlign(p.Align), false)
		pdf.Ln(size * 0.2)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("building pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func pdfAlign(a core.Alignment) string {
	switch a {
	case core.AlignLeft:
		return "L"
	case core.AlignRight, core.AlignRightToLeft:
		return "R"
	default:
		return ""
	}
}
