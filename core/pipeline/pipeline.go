// Package pipeline wires the stages into one end-to-end run:
// normalize → resolve last page → fetch root → extract → assemble → render → write.
//
// A run is sequential. Fatal errors (invalid URL, pagination, root page)
// return before anything is written; chapter failures are logged and skipped.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gaurav-prasanna/shameladocx/core"
	"github.com/gaurav-prasanna/shameladocx/core/assemble"
	"github.com/gaurav-prasanna/shameladocx/core/extract"
	"github.com/gaurav-prasanna/shameladocx/core/normalize"
	"github.com/gaurav-prasanna/shameladocx/core/output"
	"github.com/gaurav-prasanna/shameladocx/crawl"
)

// Options configures a Pipeline. Zero values take the site defaults.
type Options struct {
	Host     string
	Layout   core.Layout
	Style    assemble.Style
	Logger   *slog.Logger
	Resolver crawl.Resolver
}

// Pipeline turns a start URL into a rendered book on disk.
type Pipeline struct {
	host       string
	normalizer *normalize.Normalizer
	fetcher    core.Fetcher
	resolver   crawl.Resolver
	extractor  *extract.HTMLExtractor
	style      assemble.Style
	renderer   core.Renderer
	writer     *output.Writer
	logger     *slog.Logger
}

// SkippedChapter records a chapter that contributed nothing to the book.
type SkippedChapter struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Book is the in-memory result of Build.
type Book struct {
	Ref      core.BookRef
	Document *core.Document
	Skipped  []SkippedChapter
}

// Result describes a completed Run.
type Result struct {
	Ref     core.BookRef     `json:"ref"`
	Path    string           `json:"path"`
	Format  string           `json:"format"`
	Skipped []SkippedChapter `json:"skipped,omitempty"`
}

// New creates a Pipeline. The writer may be nil when only Build is used.
func New(fetcher core.Fetcher, renderer core.Renderer, writer *output.Writer, opts Options) (*Pipeline, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("pipeline requires a fetcher")
	}

	layout := opts.Layout
	if layout == (core.Layout{}) {
		layout = core.DefaultLayout()
	}

	normalizer := normalize.New(opts.Host)

	extractor, err := extract.New(layout)
	if err != nil {
		return nil, fmt.Errorf("building extractor: %w", err)
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver, err = crawl.NewContainerResolver(fetcher, layout)
		if err != nil {
			return nil, fmt.Errorf("building resolver: %w", err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Pipeline{
		host:       normalizer.Host(),
		normalizer: normalizer,
		fetcher:    fetcher,
		resolver:   resolver,
		extractor:  extractor,
		style:      opts.Style,
		renderer:   renderer,
		writer:     writer,
		logger:     logger,
	}, nil
}

// Build fetches and assembles the book that startURL points into.
func (p *Pipeline) Build(ctx context.Context, startURL string) (*Book, error) {
	// 1. Normalize
	chapterURL, err := p.normalizer.Normalize(startURL)
	if err != nil {
		return nil, err
	}

	// 2. Resolve the last chapter
	lastURL, err := p.resolver.LastPage(ctx, chapterURL)
	if err != nil {
		return nil, err
	}
	if !crawl.IsSameHost(lastURL, p.host) {
		return nil, fmt.Errorf("%w: last page %s is not on %s", core.ErrPaginationNotFound, lastURL, p.host)
	}

	// 3. Derive the chapter range
	ref, err := p.bookRef(chapterURL, lastURL)
	if err != nil {
		return nil, err
	}
	p.logger.Info("building book",
		slog.String("identifier", ref.Identifier),
		slog.Int("chapter_start", ref.ChapterStart),
		slog.Int("chapter_end", ref.ChapterEnd),
	)
	if ref.ChapterStart > ref.ChapterEnd {
		p.logger.Warn("chapter range is empty",
			slog.Int("chapter_start", ref.ChapterStart),
			slog.Int("chapter_end", ref.ChapterEnd),
		)
	}

	// 4. Root page: title and index
	asm := assemble.New(p.style)
	front, err := p.frontMatter(ctx, ref.Identifier)
	if err != nil {
		return nil, err
	}
	if err := asm.Append(front...); err != nil {
		return nil, err
	}

	// 5. Chapters, in ascending order
	var skipped []SkippedChapter
	for _, page := range crawl.Plan(p.host, ref) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fragments, err := p.chapter(ctx, page.URL)
		if err != nil {
			p.logger.Warn("skipping chapter",
				slog.Int("chapter", page.Number),
				slog.String("url", page.URL),
				slog.String("error", err.Error()),
			)
			skipped = append(skipped, SkippedChapter{Number: page.Number, URL: page.URL, Reason: err.Error()})
			continue
		}
		if err := asm.Append(fragments...); err != nil {
			return nil, err
		}
	}

	return &Book{Ref: ref, Document: asm.Finalize(), Skipped: skipped}, nil
}

// Run builds the book, renders it and writes it as name plus the renderer's
// extension. Nothing is written when Build fails.
func (p *Pipeline) Run(ctx context.Context, startURL, name string) (*Result, error) {
	if p.renderer == nil || p.writer == nil {
		return nil, fmt.Errorf("pipeline has no renderer or writer configured")
	}

	book, err := p.Build(ctx, startURL)
	if err != nil {
		return nil, err
	}

	data, err := p.renderer.Render(book.Document)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	path, err := p.writer.Write(name, data, p.renderer.Extension())
	if err != nil {
		return nil, err
	}

	p.logger.Info("book saved",
		slog.String("path", path),
		slog.Int("paragraphs", len(book.Document.Paragraphs)),
		slog.Int("skipped", len(book.Skipped)),
	)

	return &Result{
		Ref:     book.Ref,
		Path:    path,
		Format:  strings.TrimPrefix(p.renderer.Extension(), "."),
		Skipped: book.Skipped,
	}, nil
}

func (p *Pipeline) bookRef(chapterURL, lastURL string) (core.BookRef, error) {
	id, err := normalize.Identifier(chapterURL)
	if err != nil {
		return core.BookRef{}, err
	}
	start, err := normalize.ChapterNumber(chapterURL)
	if err != nil {
		return core.BookRef{}, err
	}
	end, err := normalize.ChapterNumber(lastURL)
	if err != nil {
		return core.BookRef{}, fmt.Errorf("last page %s: %w", lastURL, err)
	}
	return core.BookRef{Identifier: id, ChapterStart: start, ChapterEnd: end}, nil
}

// frontMatter returns the title block, the book card from the root page's
// content block followed by a separator, the index block, a separator and a
// page break. A root page that cannot be fetched is fatal; a missing card or
// index is logged and left out.
func (p *Pipeline) frontMatter(ctx context.Context, identifier string) ([]core.Fragment, error) {
	rootURL := normalize.RootURL(p.host, identifier)
	result, err := p.fetcher.Fetch(ctx, rootURL)
	if err != nil {
		return nil, fmt.Errorf("fetching book root: %w", err)
	}
	doc, err := p.extractor.Parse(result.HTML)
	if err != nil {
		return nil, fmt.Errorf("parsing book root: %w", err)
	}

	fragments := p.extractor.Title(doc)
	card, err := p.extractor.Body(doc)
	if err != nil {
		p.logger.Warn("book card missing", slog.String("url", rootURL), slog.String("error", err.Error()))
	} else {
		fragments = append(fragments, card...)
		fragments = append(fragments, core.Separator())
	}
	index, err := p.extractor.Index(doc)
	if err != nil {
		p.logger.Warn("book index missing", slog.String("url", rootURL), slog.String("error", err.Error()))
	}
	fragments = append(fragments, index...)
	return append(fragments, core.Separator(), core.PageBreak()), nil
}

func (p *Pipeline) chapter(ctx context.Context, chapterURL string) ([]core.Fragment, error) {
	result, err := p.fetcher.Fetch(ctx, chapterURL)
	if err != nil {
		return nil, err
	}
	doc, err := p.extractor.Parse(result.HTML)
	if err != nil {
		return nil, err
	}
	return p.extractor.Body(doc)
}
