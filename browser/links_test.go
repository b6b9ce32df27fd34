package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/BrowseKit/page"
)

const navHTML = `
<html><body>
	<a href="/docs/intro">Introduction</a>
	<a href="/blog/post">Latest post</a>
	<a href="/docs/api">API reference</a>
	<a>No destination</a>
</body></html>`

func TestLinks(t *testing.T) {
	b := testBrowser(Config{})
	_, err := b.OpenFakePage(navHTML, "", nil)
	require.NoError(t, err)

	links, err := b.Links(page.LinkFilter{})
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "/docs/intro", links[0].Href)
	assert.Equal(t, "/blog/post", links[1].Href)
	assert.Equal(t, "/docs/api", links[2].Href)
}

func TestLinksFiltered(t *testing.T) {
	b := testBrowser(Config{})
	_, err := b.OpenFakePage(navHTML, "", nil)
	require.NoError(t, err)

	links, err := b.Links(page.LinkFilter{URLPattern: `^/docs/`})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "Introduction", links[0].Text)
	assert.Equal(t, "API reference", links[1].Text)
}

func TestLinksWithoutPage(t *testing.T) {
	b := testBrowser(Config{})
	_, err := b.Links(page.LinkFilter{})
	assert.ErrorIs(t, err, ErrNoPage)
}

func TestFindLink(t *testing.T) {
	b := testBrowser(Config{})
	_, err := b.OpenFakePage(navHTML, "", nil)
	require.NoError(t, err)

	link, err := b.FindLink(page.LinkFilter{Text: "Latest post"})
	require.NoError(t, err)
	assert.Equal(t, "/blog/post", link.Href)

	_, err = b.FindLink(page.LinkFilter{Text: "Nowhere"})
	assert.ErrorIs(t, err, ErrLinkNotFound)
}

func TestResolveLinkConflictingArguments(t *testing.T) {
	b := testBrowser(Config{})
	_, err := b.OpenFakePage(navHTML, "", nil)
	require.NoError(t, err)

	_, err = b.FollowLink(context.Background(), LinkRef{
		Pattern: "docs",
		Filter:  page.LinkFilter{URLPattern: "blog"},
	}, nil)
	assert.ErrorIs(t, err, ErrConflictingArguments)
}

func TestFollowLink(t *testing.T) {
	var gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`<a href="/next">Next page</a>`))
		case "/next":
			gotReferer = r.Header.Get("Referer")
			w.Write([]byte(`<html><head><title>Next</title></head></html>`))
		}
	}))
	defer server.Close()

	b := testBrowser(Config{})
	_, err := b.Open(context.Background(), server.URL+"/")
	require.NoError(t, err)

	resp, err := b.FollowLink(context.Background(), LinkRef{Pattern: "next"}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, server.URL+"/next", b.URL())
	assert.Equal(t, "Next", b.Page().Title())
	assert.Equal(t, server.URL+"/", gotReferer)
}

func TestFollowLinkRefererOverride(t *testing.T) {
	var gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`<a href="/next">Next</a>`))
		case "/next":
			gotReferer = r.Header.Get("Referer")
			w.Write([]byte(`<html></html>`))
		}
	}))
	defer server.Close()

	b := testBrowser(Config{})
	_, err := b.Open(context.Background(), server.URL+"/")
	require.NoError(t, err)

	headers := http.Header{}
	headers.Set("referer", "http://elsewhere.example/")
	_, err = b.FollowLink(context.Background(), LinkRef{Pattern: "next"}, &RequestOptions{Headers: headers})
	require.NoError(t, err)
	assert.Equal(t, "http://elsewhere.example/", gotReferer)
}

func TestFollowLinkNotFound(t *testing.T) {
	b := testBrowser(Config{})
	_, err := b.OpenFakePage(navHTML, "", nil)
	require.NoError(t, err)

	_, err = b.FollowLink(context.Background(), LinkRef{Pattern: "missing"}, nil)
	assert.ErrorIs(t, err, ErrLinkNotFound)
}

func TestDownloadLink(t *testing.T) {
	payload := []byte("attachment bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`<a href="/file.bin">Download</a>`))
		case "/file.bin":
			w.Write(payload)
		}
	}))
	defer server.Close()

	b := testBrowser(Config{})
	_, err := b.Open(context.Background(), server.URL+"/")
	require.NoError(t, err)

	urlBefore := b.URL()
	pageBefore := b.Page()

	path := filepath.Join(t.TempDir(), "file.bin")
	resp, err := b.DownloadLink(context.Background(), LinkRef{Pattern: `file\.bin`}, path, nil)
	require.NoError(t, err)
	assert.Equal(t, payload, resp.Body)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	// Downloading leaves the browser exactly where it was
	assert.Equal(t, urlBefore, b.URL())
	assert.Same(t, pageBefore, b.Page())
}

func TestDownloadLinkOverwrites(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`<a href="/f">f</a>`))
		case "/f":
			w.Write([]byte("new"))
		}
	}))
	defer server.Close()

	b := testBrowser(Config{})
	_, err := b.Open(context.Background(), server.URL+"/")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("old and much longer"), 0o600))

	_, err = b.DownloadLink(context.Background(), LinkRef{Pattern: "/f"}, path, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestDownloadLinkNoPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`<a href="/f">f</a>`))
		case "/f":
			w.Write([]byte("body only"))
		}
	}))
	defer server.Close()

	b := testBrowser(Config{})
	_, err := b.Open(context.Background(), server.URL+"/")
	require.NoError(t, err)

	resp, err := b.DownloadLink(context.Background(), LinkRef{Pattern: "/f"}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "body only", string(resp.Body))
}

func TestDownloadLinkRaiseOn404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`<a href="/gone">gone</a>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	b := testBrowser(Config{RaiseOn404: true})
	_, err := b.Open(context.Background(), server.URL+"/")
	require.NoError(t, err)

	_, err = b.DownloadLink(context.Background(), LinkRef{Pattern: "gone"}, "", nil)
	assert.ErrorIs(t, err, ErrLinkNotFound)
}
