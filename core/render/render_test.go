package render

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"testing"

	docx "github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/shameladocx/core"
	"github.com/gaurav-prasanna/shameladocx/core/assemble"
)

func sampleDocument(t *testing.T) *core.Document {
	t.Helper()
	a := assemble.New(assemble.DefaultStyle())
	require.NoError(t, a.Append(
		core.Title("صحيح البخاري"),
		core.Separator(),
		core.Heading("المؤلف"),
		core.ListItem("محمد بن إسماعيل"),
		core.ListItem("الناشر"),
		core.Separator(),
		core.PageBreak(),
		core.Heading("باب الوحي"),
		core.Paragraph("حدثنا الحميدي ]رضي الله عنه["),
		core.Separator(),
		core.PageBreak(),
		core.Paragraph("الفصل الثاني"),
	))
	return a.Finalize()
}

func TestDOCXRenderer(t *testing.T) {
	doc := sampleDocument(t)
	r := NewDOCXRenderer()
	assert.Equal(t, ".docx", r.Extension())

	data, err := r.Render(doc)
	require.NoError(t, err)

	parsed, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var paras []*docx.Paragraph
	for _, item := range parsed.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			paras = append(paras, p)
		}
	}
	require.Len(t, paras, len(doc.Paragraphs))

	for i, p := range paras {
		require.NotNil(t, p.Properties, "paragraph %d", i)
		require.NotNil(t, p.Properties.Justification, "paragraph %d", i)
		assert.Equal(t, "right", p.Properties.Justification.Val, "paragraph %d", i)
	}
	assert.Contains(t, paras[0].String(), "صحيح البخاري")
	assert.Contains(t, paras[8].String(), "حدثنا الحميدي")
}

func TestJustification(t *testing.T) {
	assert.Equal(t, "", justification(core.AlignDefault))
	assert.Equal(t, "left", justification(core.AlignLeft))
	assert.Equal(t, "right", justification(core.AlignRight))
	assert.Equal(t, "right", justification(core.AlignRightToLeft))
	assert.Equal(t, "42", halfPoints(21))
	assert.Equal(t, "30", halfPoints(15))
}

func TestPDFRenderer_RequiresFont(t *testing.T) {
	r := NewPDFRenderer("")
	assert.Equal(t, ".pdf", r.Extension())

	_, err := r.Render(sampleDocument(t))
	assert.ErrorIs(t, err, ErrFontRequired)
}

func TestPDFRenderer_MissingFontFile(t *testing.T) {
	r := NewPDFRenderer("/nonexistent/font.ttf")
	_, err := r.Render(sampleDocument(t))
	assert.Error(t, err)
}

func TestJSONRenderer(t *testing.T) {
	r := NewJSONRenderer()
	assert.Equal(t, ".json", r.Extension())

	data, err := r.Render(sampleDocument(t))
	require.NoError(t, err)

	var out struct {
		Title      string `json:"title"`
		Paragraphs []struct {
			Kind      string  `json:"kind"`
			Text      string  `json:"text"`
			Size      float64 `json:"size"`
			Bold      bool    `json:"bold"`
			Align     string  `json:"align"`
			PageBreak bool    `json:"page_break"`
		} `json:"paragraphs"`
	}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "صحيح البخاري", out.Title)
	require.Len(t, out.Paragraphs, 12)
	assert.Equal(t, "title", out.Paragraphs[0].Kind)
	assert.Equal(t, 21.0, out.Paragraphs[0].Size)
	assert.True(t, out.Paragraphs[0].Bold)
	assert.Equal(t, "list_item", out.Paragraphs[3].Kind)
	assert.Equal(t, "page_break", out.Paragraphs[6].Kind)
	assert.True(t, out.Paragraphs[6].PageBreak)
	for _, p := range out.Paragraphs {
		assert.Equal(t, "rtl", p.Align)
	}
}

func TestJSONRenderer_EmptyDocument(t *testing.T) {
	data, err := NewJSONRenderer().Render(&core.Document{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"paragraphs":[]}`, string(data))
}

func TestMarkdownRenderer(t *testing.T) {
	r := NewMarkdownRenderer()
	assert.Equal(t, ".md", r.Extension())

	data, err := r.Render(sampleDocument(t))
	require.NoError(t, err)
	md := string(data)

	assert.Contains(t, md, "# صحيح البخاري")
	assert.Contains(t, md, "## المؤلف")
	assert.Contains(t, md, "- محمد بن إسماعيل")
	assert.Contains(t, md, "- الناشر")
	assert.Contains(t, md, "حدثنا الحميدي")
	assert.NotContains(t, md, "<p>")
}

func TestDocumentHTML_GroupsListItems(t *testing.T) {
	doc := &core.Document{Paragraphs: []core.FormattedParagraph{
		{Kind: core.KindListItem, Text: "a"},
		{Kind: core.KindListItem, Text: "b"},
		{Kind: core.KindParagraph, Text: "x < y"},
		{Kind: core.KindListItem, Text: "c"},
	}}
	assert.Equal(t,
		`<div dir="rtl"><ul><li>a</li><li>b</li></ul><p>x &lt; y</p><ul><li>c</li></ul></div>`,
		documentHTML(doc))
}

func TestEPUBRenderer(t *testing.T) {
	r := NewEPUBRenderer()
	assert.Equal(t, ".epub", r.Extension())

	data, err := r.Render(sampleDocument(t))
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["mimetype"])
}

func TestSplitSections(t *testing.T) {
	sections := splitSections(sampleDocument(t))
	require.Len(t, sections, 3)
	assert.Equal(t, "صحيح البخاري", sections[0].title)
	assert.Equal(t, "باب الوحي", sections[1].title)
	assert.Equal(t, "", sections[2].title)
	assert.Equal(t, "<p>الفصل الثاني</p>", sections[2].body.String())
}
