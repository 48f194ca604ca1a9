package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/shameladocx/core"
	"github.com/gaurav-prasanna/shameladocx/core/output"
	"github.com/gaurav-prasanna/shameladocx/core/render"
)

// recordingFetcher serves pages by URL and records every request in order.
type recordingFetcher struct {
	pages map[string]string
	calls []string
}

func (f *recordingFetcher) Fetch(_ context.Context, url string) (*core.FetchResult, error) {
	f.calls = append(f.calls, url)
	body, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("%w: unexpected status 404 for %s", core.ErrNetwork, url)
	}
	return &core.FetchResult{URL: url, StatusCode: 200, HTML: body}, nil
}

const (
	rootURL = "https://shamela.ws/book/6388/"
	ch1URL  = "https://shamela.ws/book/6388/1"
	ch2URL  = "https://shamela.ws/book/6388/2"
	ch3URL  = "https://shamela.ws/book/6388/3"
)

const rootPage = `<html><body>
<h1>صحيح البخاري</h1>
<div class="nass"><h3>بطاقة المؤلف</h3>المؤلف: البخاري (ت 256)</div>
<div class="betaka-index">
  <h4>بطاقة الكتاب</h4>
  <ul><li>- المؤلف: البخاري</li><li>- الناشر: دار طوق النجاة -</li></ul>
</div>
</body></html>`

func chapterPage(last int, body string) string {
	return fmt.Sprintf(`<html><body>
<div class="col-md-8">
  <div class="text-center"></div>
  <div><a href="/book/6388/1">1</a><a href="/book/6388/%d">»</a></div>
</div>
<div class="nass">%s</div>
</body></html>`, last, body)
}

func bookPages() map[string]string {
	return map[string]string{
		rootURL: rootPage,
		ch1URL:  chapterPage(3, "<h3>باب الوحي</h3>نص (أول)"),
		ch2URL:  chapterPage(3, "<p>نص ثان</p>"),
		ch3URL:  chapterPage(3, "نص «ثالث»"),
	}
}

func newPipeline(t *testing.T, f core.Fetcher, dir string) *Pipeline {
	t.Helper()
	var w *output.Writer
	if dir != "" {
		var err error
		w, err = output.New(dir)
		require.NoError(t, err)
	}
	p, err := New(f, render.NewJSONRenderer(), w, Options{})
	require.NoError(t, err)
	return p
}

func texts(doc *core.Document) []string {
	out := make([]string, 0, len(doc.Paragraphs))
	for _, p := range doc.Paragraphs {
		out = append(out, p.Text)
	}
	return out
}

func TestBuild(t *testing.T) {
	f := &recordingFetcher{pages: bookPages()}
	p := newPipeline(t, f, "")

	book, err := p.Build(context.Background(), "https://shamela.ws/book/6388")
	require.NoError(t, err)

	assert.Equal(t, core.BookRef{Identifier: "6388", ChapterStart: 1, ChapterEnd: 3}, book.Ref)
	assert.Empty(t, book.Skipped)
	assert.Equal(t, []string{ch1URL, rootURL, ch1URL, ch2URL, ch3URL}, f.calls)

	doc := book.Document
	assert.Equal(t, "صحيح البخاري", doc.Title)
	assert.Equal(t, []string{
		"صحيح البخاري",
		"-------------",
		"بطاقة المؤلف",
		"المؤلف: البخاري ]ت 256[",
		"-------------",
		"بطاقة الكتاب",
		"المؤلف: البخاري",
		"الناشر: دار طوق النجاة",
		"-------------",
		"",
		"باب الوحي",
		"نص ]أول[",
		"نص ثان",
		"نص ]ثالث[",
	}, texts(doc))

	assert.Equal(t, core.KindTitle, doc.Paragraphs[0].Kind)
	assert.True(t, doc.Paragraphs[0].Bold)
	assert.Equal(t, 21.0, doc.Paragraphs[0].Size)
	assert.Equal(t, core.KindHeading, doc.Paragraphs[2].Kind)
	assert.True(t, doc.Paragraphs[2].Bold)
	assert.Equal(t, core.KindParagraph, doc.Paragraphs[3].Kind)
	assert.Equal(t, core.KindListItem, doc.Paragraphs[6].Kind)
	assert.True(t, doc.Paragraphs[9].PageBreak)
	assert.Equal(t, core.KindHeading, doc.Paragraphs[10].Kind)
	for i, para := range doc.Paragraphs {
		assert.Equal(t, core.AlignRightToLeft, para.Align, "paragraph %d", i)
	}
}

func TestBuild_StartsAtGivenChapter(t *testing.T) {
	f := &recordingFetcher{pages: bookPages()}
	p := newPipeline(t, f, "")

	book, err := p.Build(context.Background(), "https://shamela.ws/book/6388/2?page=x#top")
	require.NoError(t, err)

	assert.Equal(t, 2, book.Ref.ChapterStart)
	assert.Equal(t, []string{ch2URL, rootURL, ch2URL, ch3URL}, f.calls)
}

func TestBuild_SkipsFailedChapters(t *testing.T) {
	pages := bookPages()
	delete(pages, ch2URL)
	pages[ch3URL] = `<html><body><div class="other">no content</div></body></html>`
	f := &recordingFetcher{pages: pages}
	p := newPipeline(t, f, "")

	book, err := p.Build(context.Background(), ch1URL)
	require.NoError(t, err)

	require.Len(t, book.Skipped, 2)
	assert.Equal(t, 2, book.Skipped[0].Number)
	assert.Equal(t, ch2URL, book.Skipped[0].URL)
	assert.Contains(t, book.Skipped[0].Reason, "404")
	assert.Equal(t, 3, book.Skipped[1].Number)
	assert.Contains(t, book.Skipped[1].Reason, core.ErrContentNotFound.Error())

	got := texts(book.Document)
	assert.Equal(t, "نص ]أول[", got[len(got)-1])
}

func TestBuild_MissingIndexContinues(t *testing.T) {
	pages := bookPages()
	pages[rootURL] = `<html><body><h1>كتاب</h1></body></html>`
	p := newPipeline(t, &recordingFetcher{pages: pages}, "")

	book, err := p.Build(context.Background(), ch1URL)
	require.NoError(t, err)

	got := texts(book.Document)
	assert.Equal(t, []string{
		"كتاب",
		"-------------",
		"-------------",
		"",
		"باب الوحي",
		"نص ]أول[",
		"نص ثان",
		"نص ]ثالث[",
	}, got)
}

func TestBuild_BookCardBeforeIndex(t *testing.T) {
	pages := bookPages()
	pages[rootURL] = `<html><body>
<h1>كتاب</h1>
<div class="nass">
<h3>بطاقة الكتاب</h3>
المؤلف: البخاري (ت 256)
<h3>الناشر</h3>
دار «طوق» النجاة
</div>
<div class="betaka-index"><h4>فهرس</h4><ul><li>باب</li></ul></div>
</body></html>`
	p := newPipeline(t, &recordingFetcher{pages: pages}, "")

	book, err := p.Build(context.Background(), ch1URL)
	require.NoError(t, err)

	doc := book.Document
	require.GreaterOrEqual(t, len(doc.Paragraphs), 10)
	assert.Equal(t, []string{
		"كتاب",
		"-------------",
		"بطاقة الكتاب",
		"المؤلف: البخاري ]ت 256[",
		"الناشر",
		"دار ]طوق[ النجاة",
		"-------------",
		"فهرس",
		"باب",
		"-------------",
		"",
	}, texts(doc)[:11])

	assert.Equal(t, core.KindHeading, doc.Paragraphs[2].Kind)
	assert.True(t, doc.Paragraphs[2].Bold)
	assert.Equal(t, core.KindParagraph, doc.Paragraphs[3].Kind)
	assert.Equal(t, 15.0, doc.Paragraphs[3].Size)
	assert.True(t, doc.Paragraphs[10].PageBreak)
}


func TestBuild_InvertedRange(t *testing.T) {
	pages := bookPages()
	pages["https://shamela.ws/book/6388/5"] = chapterPage(3, "never read")
	f := &recordingFetcher{pages: pages}
	p := newPipeline(t, f, "")

	book, err := p.Build(context.Background(), "https://shamela.ws/book/6388/5")
	require.NoError(t, err)

	assert.Equal(t, 5, book.Ref.ChapterStart)
	assert.Equal(t, 3, book.Ref.ChapterEnd)
	assert.Len(t, book.Document.Paragraphs, 10)
	assert.Equal(t, []string{"https://shamela.ws/book/6388/5", rootURL}, f.calls)
}

func TestBuild_FatalErrors(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		pages func() map[string]string
		want  error
	}{
		{"foreign host", "https://example.com/book/6388", bookPages, core.ErrInvalidURL},
		{"not a book", "https://shamela.ws/author/12", bookPages, core.ErrInvalidURL},
		{"pagination fetch", ch1URL, func() map[string]string { return map[string]string{} }, core.ErrNetwork},
		{"pagination structure", ch1URL, func() map[string]string {
			p := bookPages()
			p[ch1URL] = `<div class="nass">text only</div>`
			return p
		}, core.ErrPaginationNotFound},
		{"off-host last page", ch1URL, func() map[string]string {
			p := bookPages()
			p[ch1URL] = `<div class="col-md-8"><div></div><div><a href="https://evil.test/book/6388/9">»</a></div></div>`
			return p
		}, core.ErrPaginationNotFound},
		{"last page without chapter", ch1URL, func() map[string]string {
			p := bookPages()
			p[ch1URL] = `<div class="col-md-8"><div></div><div><a href="/book/6388/">»</a></div></div>`
			return p
		}, core.ErrPaginationNotFound},
		{"root fetch", ch1URL, func() map[string]string {
			p := bookPages()
			delete(p, rootURL)
			return p
		}, core.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(t, &recordingFetcher{pages: tt.pages()}, "")
			book, err := p.Build(context.Background(), tt.url)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, book)
		})
	}
}

func TestBuild_InvalidURLFetchesNothing(t *testing.T) {
	f := &recordingFetcher{pages: bookPages()}
	p := newPipeline(t, f, "")

	_, err := p.Build(context.Background(), "not a url")
	assert.ErrorIs(t, err, core.ErrInvalidURL)
	assert.Empty(t, f.calls)
}

func TestBuild_Cancelled(t *testing.T) {
	p := newPipeline(t, &recordingFetcher{pages: bookPages()}, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Build(ctx, ch1URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_Idempotent(t *testing.T) {
	p := newPipeline(t, &recordingFetcher{pages: bookPages()}, "")

	first, err := p.Build(context.Background(), ch1URL)
	require.NoError(t, err)
	second, err := p.Build(context.Background(), ch1URL)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	p := newPipeline(t, &recordingFetcher{pages: bookPages()}, dir)

	res, err := p.Run(context.Background(), ch1URL, "combined-output")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "combined-output.json"), res.Path)
	assert.Equal(t, "json", res.Format)
	assert.Equal(t, 1, res.Ref.ChapterStart)
	assert.Equal(t, 3, res.Ref.ChapterEnd)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	var doc struct {
		Title      string            `json:"title"`
		Paragraphs []json.RawMessage `json:"paragraphs"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "صحيح البخاري", doc.Title)
	assert.Len(t, doc.Paragraphs, 14)
}

func TestRun_FatalErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	pages := bookPages()
	pages[ch1URL] = `<div class="nass">no pagination</div>`
	p := newPipeline(t, &recordingFetcher{pages: pages}, dir)

	_, err := p.Run(context.Background(), ch1URL, "combined-output")
	assert.ErrorIs(t, err, core.ErrPaginationNotFound)

	_, err = p.Run(context.Background(), "https://shamela.ws/book/", "combined-output")
	assert.ErrorIs(t, err, core.ErrInvalidURL)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_RequiresWriter(t *testing.T) {
	p := newPipeline(t, &recordingFetcher{pages: bookPages()}, "")
	_, err := p.Run(context.Background(), ch1URL, "x")
	assert.Error(t, err)
}

func TestNew_InvalidLayout(t *testing.T) {
	layout := core.DefaultLayout()
	layout.Content = "div["
	_, err := New(&recordingFetcher{}, render.NewJSONRenderer(), nil, Options{Layout: layout})
	assert.Error(t, err)

	_, err = New(nil, render.NewJSONRenderer(), nil, Options{})
	assert.Error(t, err)
}
