package core

// Alignment is the horizontal alignment of a formatted paragraph.
type Alignment int

const (
	// AlignDefault leaves alignment to the output format.
	AlignDefault Alignment = iota
	AlignLeft
	AlignRight
	// AlignRightToLeft aligns to the right edge for right-to-left scripts.
	AlignRightToLeft
)

var alignNames = map[Alignment]string{
	AlignDefault:     "default",
	AlignLeft:        "left",
	AlignRight:       "right",
	AlignRightToLeft: "rtl",
}

// String returns the short name of the alignment.
func (a Alignment) String() string {
	if name, ok := alignNames[a]; ok {
		return name
	}
	return "unknown"
}

// MarshalText lets alignments appear by name in JSON output.
func (a Alignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// FormattedParagraph is one paragraph of the output document with its
// formatting resolved. Size is in points; zero means the format default.
type FormattedParagraph struct {
	Kind      FragmentKind `json:"kind"`
	Text      string       `json:"text,omitempty"`
	Font      string       `json:"font,omitempty"`
	Size      float64      `json:"size,omitempty"`
	Bold      bool         `json:"bold,omitempty"`
	Align     Alignment    `json:"align"`
	PageBreak bool         `json:"page_break,omitempty"`
}

// Document is the ordered, formatted content handed to a Renderer.
type Document struct {
	Title      string               `json:"title,omitempty"`
	Paragraphs []FormattedParagraph `json:"paragraphs"`
}
