// Package render — JSON renderer.
// Emits the assembled document with its resolved formatting, one object per
// paragraph, so downstream tools can re-typeset the book.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/shameladocx/core"
)

// JSONRenderer produces structured JSON output from the document.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the document as indented JSON.
func (r *JSONRenderer) Render(doc *core.Document) ([]byte, error) {
	out := *doc
	if out.Paragraphs == nil {
		out.Paragraphs = []core.FormattedParagraph{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
