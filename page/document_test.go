package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linksHTML = `
<html><body>
	<a href="/a1">first</a>
	<a href="/b1">second</a>
	<a href="/a2">third</a>
	<a name="anchor-without-href">nope</a>
</body></html>`

func mustParse(t *testing.T, html string) *Document {
	t.Helper()
	doc, err := Parse(html, Config{DisableCharsetDetect: true})
	require.NoError(t, err)
	return doc
}

func TestSelectDocumentOrder(t *testing.T) {
	doc := mustParse(t, `<div id="x"><p>one</p></div><div id="y"><p>two</p></div>`)

	divs := doc.Select("div", 0)
	require.Len(t, divs, 2)
	assert.Equal(t, "x", divs[0].AttrOr("id", ""))
	assert.Equal(t, "y", divs[1].AttrOr("id", ""))
}

func TestSelectLimit(t *testing.T) {
	doc := mustParse(t, `<p>1</p><p>2</p><p>3</p>`)

	assert.Len(t, doc.Select("p", 2), 2)
	assert.Len(t, doc.Select("p", 0), 3)
	assert.Len(t, doc.Select("p", 10), 3)
	assert.Empty(t, doc.Select("table", 0))
}

func TestLinksAll(t *testing.T) {
	doc := mustParse(t, linksHTML)

	links, err := doc.Links(LinkFilter{})
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "/a1", links[0].Href)
	assert.Equal(t, "first", links[0].Text)
}

func TestLinksURLPattern(t *testing.T) {
	doc := mustParse(t, linksHTML)

	links, err := doc.Links(LinkFilter{URLPattern: "^/a"})
	require.NoError(t, err)
	require.Len(t, links, 2)
	// Document order is preserved through filtering
	assert.Equal(t, "/a1", links[0].Href)
	assert.Equal(t, "/a2", links[1].Href)
}

func TestLinksTextFilter(t *testing.T) {
	doc := mustParse(t, linksHTML)

	links, err := doc.Links(LinkFilter{Text: "second"})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "/b1", links[0].Href)
}

func TestLinksBadPattern(t *testing.T) {
	doc := mustParse(t, linksHTML)

	_, err := doc.Links(LinkFilter{URLPattern: "["})
	assert.Error(t, err)
}

func TestMetadata(t *testing.T) {
	doc := mustParse(t, `
<html><head>
	<title>Meta Test</title>
	<meta name="description" content="a test page">
	<meta property="og:title" content="OG Meta Test">
	<link rel="canonical" href="https://example.com/canonical">
</head><body></body></html>`)

	md := doc.Metadata()
	assert.Equal(t, "Meta Test", md.Title)
	assert.Equal(t, "a test page", md.Meta["description"])
	assert.Equal(t, "OG Meta Test", md.Meta["og:title"])
	assert.Equal(t, "https://example.com/canonical", md.Canonical)
}

func TestXPath(t *testing.T) {
	doc := mustParse(t, `<html><body><div class="c"><span>alpha</span><span>beta</span></div></body></html>`)

	nodes, err := doc.XPath("//span")
	require.NoError(t, err)
	assert.Len(t, nodes, 2)

	text, err := doc.XPathText("//div[@class='c']/span[2]")
	require.NoError(t, err)
	assert.Equal(t, "beta", text)

	attr, err := doc.XPathAttr("//div", "class")
	require.NoError(t, err)
	assert.Equal(t, "c", attr)
}

func TestXPathNoMatch(t *testing.T) {
	doc := mustParse(t, `<p>x</p>`)

	text, err := doc.XPathText("//table")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestSanitizedHTML(t *testing.T) {
	doc := mustParse(t, `<html><body><p>safe</p><script>alert(1)</script></body></html>`)

	clean, err := doc.SanitizedHTML()
	require.NoError(t, err)
	assert.Contains(t, clean, "safe")
	assert.NotContains(t, clean, "<script>")
}
