package core

// DefaultHost is the document-reading site the pipeline understands.
const DefaultHost = "shamela.ws"

// Layout holds the CSS selectors describing the source site's markup.
// Keeping them in one value lets a markup change be handled by configuration.
type Layout struct {
	Title           string `yaml:"title"`
	Pagination      string `yaml:"pagination"`
	PaginationBlock int    `yaml:"pagination_block"`
	PaginationLink  string `yaml:"pagination_link"`
	IndexBlock      string `yaml:"index_block"`
	IndexHeading    string `yaml:"index_heading"`
	IndexItem       string `yaml:"index_item"`
	Content         string `yaml:"content"`
	ContentHeading  string `yaml:"content_heading"`
}

// DefaultLayout returns the selectors for shamela.ws.
func DefaultLayout() Layout {
	return Layout{
		Title:           "h1",
		Pagination:      "div.col-md-8",
		PaginationBlock: 1,
		PaginationLink:  "a",
		IndexBlock:      "div.betaka-index",
		IndexHeading:    "h4",
		IndexItem:       "li",
		Content:         "div.nass",
		ContentHeading:  "h3",
	}
}
