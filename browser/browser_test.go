package browser

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/BrowseKit/session"
)

func testBrowser(cfg Config) *StatefulBrowser {
	if cfg.Session == nil {
		scfg := session.DefaultConfig()
		scfg.RetryMax = 0
		cfg.Session = session.New(scfg)
	}
	return New(cfg)
}

func TestOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Home</title></head><body><p>hi</p></body></html>`))
	}))
	defer server.Close()

	b := testBrowser(Config{})
	resp, err := b.Open(context.Background(), server.URL+"/")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, server.URL+"/", b.URL())
	require.NotNil(t, b.Page())
	assert.Equal(t, "Home", b.Page().Title())
	assert.NotNil(t, b.State().Request())
}

func TestOpenRecordsFinalURLAfterRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/start":
			http.Redirect(w, r, "/final", http.StatusMovedPermanently)
		default:
			w.Write([]byte(`<html><body>landed</body></html>`))
		}
	}))
	defer server.Close()

	b := testBrowser(Config{})
	_, err := b.Open(context.Background(), server.URL+"/start")
	require.NoError(t, err)

	// State holds the post-redirect URL, not the one requested
	assert.Equal(t, server.URL+"/final", b.URL())
}

func TestOpenRelative(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>` + r.URL.Path + `</body></html>`))
	}))
	defer server.Close()

	b := testBrowser(Config{})
	_, err := b.Open(context.Background(), server.URL+"/dir/index.html")
	require.NoError(t, err)

	_, err = b.OpenRelative(context.Background(), "sub.html")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/dir/sub.html", b.URL())

	_, err = b.OpenRelative(context.Background(), "/root.html")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/root.html", b.URL())
}

func TestOpenFakePage(t *testing.T) {
	b := testBrowser(Config{})

	doc, err := b.OpenFakePage(`<html><body><form id="f"></form></body></html>`, "", nil)
	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Empty(t, b.URL())
	assert.Nil(t, b.State().Request())
}

func TestOpenFakePageWithURL(t *testing.T) {
	b := testBrowser(Config{})

	_, err := b.OpenFakePage(`<a href="page2.html">next</a>`, "http://example.com/page1.html", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/page1.html", b.URL())
	assert.Equal(t, "http://example.com/page2.html", b.AbsoluteURL("page2.html"))
}

func TestRefresh(t *testing.T) {
	count := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count++
		w.Write([]byte(`<html><body>visit</body></html>`))
	}))
	defer server.Close()

	b := testBrowser(Config{})
	_, err := b.Open(context.Background(), server.URL)
	require.NoError(t, err)

	_, err = b.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRefreshDiscardsSelectedForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><form><input name="q"></form></body></html>`))
	}))
	defer server.Close()

	b := testBrowser(Config{})
	_, err := b.Open(context.Background(), server.URL)
	require.NoError(t, err)

	_, err = b.SelectForm("", 0)
	require.NoError(t, err)

	_, err = b.Refresh(context.Background())
	require.NoError(t, err)

	_, err = b.Form()
	assert.ErrorIs(t, err, ErrNoFormSelected)
}

func TestRefreshUnrefreshable(t *testing.T) {
	b := testBrowser(Config{})

	// Never navigated
	_, err := b.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNotRefreshable)

	// Fake pages have no originating request
	_, err = b.OpenFakePage(`<html></html>`, "http://example.com/", nil)
	require.NoError(t, err)
	_, err = b.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNotRefreshable)
}

func TestOpenRaiseOn404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	b := testBrowser(Config{})
	_, err := b.Open(context.Background(), server.URL)
	// 404 is an ordinary page by default
	require.NoError(t, err)

	b404 := testBrowser(Config{RaiseOn404: true})
	_, err = b404.Open(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrLinkNotFound)
}

func TestVerbosity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html></html>`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	b := testBrowser(Config{Verbose: 1, Progress: &buf})

	_, err := b.Open(context.Background(), server.URL)
	require.NoError(t, err)
	_, err = b.Open(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "..", buf.String())

	buf.Reset()
	b.SetVerbose(2)
	_, err = b.Open(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"\n", buf.String())

	buf.Reset()
	b.SetVerbose(0)
	_, err = b.Open(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestAbsoluteURL(t *testing.T) {
	b := testBrowser(Config{})
	_, err := b.OpenFakePage(`<html></html>`, "http://example.com/a/b?q=1#frag", nil)
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"c", "http://example.com/a/c"},
		{"/c", "http://example.com/c"},
		{"?x=2", "http://example.com/a/b?x=2"},
		{"#top", "http://example.com/a/b?q=1#top"},
		{"http://other.com/z", "http://other.com/z"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, b.AbsoluteURL(tc.in), "input %q", tc.in)
	}
}

func TestAbsoluteURLWithoutBase(t *testing.T) {
	b := testBrowser(Config{})
	assert.Equal(t, "relative.html", b.AbsoluteURL("relative.html"))
}
