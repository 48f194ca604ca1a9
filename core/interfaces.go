// Package core defines the pipeline types and interfaces shared by every stage.
// Each stage of the pipeline is a clean, testable interface.
package core

import "context"

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// FragmentKind tags the variant carried by a Fragment.
type FragmentKind int

const (
	KindTitle FragmentKind = iota
	KindHeading
	KindParagraph
	KindListItem
	KindSeparator
	KindPageBreak
)

var kindNames = map[FragmentKind]string{
	KindTitle:     "title",
	KindHeading:   "heading",
	KindParagraph: "paragraph",
	KindListItem:  "list_item",
	KindSeparator: "separator",
	KindPageBreak: "page_break",
}

// String returns the snake_case name of the kind.
func (k FragmentKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText lets kinds appear by name in JSON output.
func (k FragmentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Fragment is the smallest unit of extracted content, in document order.
// Separator and PageBreak carry no text.
type Fragment struct {
	Kind FragmentKind
	Text string
}

// Title returns a title fragment.
func Title(text string) Fragment { return Fragment{Kind: KindTitle, Text: text} }

// Heading returns a heading fragment.
func Heading(text string) Fragment { return Fragment{Kind: KindHeading, Text: text} }

// Paragraph returns a body paragraph fragment.
func Paragraph(text string) Fragment { return Fragment{Kind: KindParagraph, Text: text} }

// ListItem returns an index list item fragment.
func ListItem(text string) Fragment { return Fragment{Kind: KindListItem, Text: text} }

// Separator returns a separator fragment.
func Separator() Fragment { return Fragment{Kind: KindSeparator} }

// PageBreak returns a page break fragment.
func PageBreak() Fragment { return Fragment{Kind: KindPageBreak} }

// BookRef identifies a book and the inclusive chapter range to download.
type BookRef struct {
	Identifier   string `json:"identifier"`
	ChapterStart int    `json:"chapter_start"`
	ChapterEnd   int    `json:"chapter_end"`
}

// Chapters returns the chapter numbers in ascending order.
// The range is empty when ChapterStart > ChapterEnd.
func (b BookRef) Chapters() []int {
	if b.ChapterStart > b.ChapterEnd {
		return nil
	}
	chapters := make([]int, 0, b.ChapterEnd-b.ChapterStart+1)
	for n := b.ChapterStart; n <= b.ChapterEnd; n++ {
		chapters = append(chapters, n)
	}
	return chapters
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Renderer converts an assembled document into a final output format.
type Renderer interface {
	Render(doc *Document) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".docx", ".pdf").
	Extension() string
}
