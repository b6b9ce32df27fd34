package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/BrowseKit/internal/logging"
	"github.com/GriffinCanCode/BrowseKit/page"
	"github.com/GriffinCanCode/BrowseKit/session"
)

// Config defines browser behavior.
type Config struct {
	// Session is the HTTP transport. Nil builds one with session defaults.
	Session *session.Client
	// Parser configures HTML parsing for every opened page.
	Parser page.Config
	// RaiseOn404 surfaces 404 responses as ErrLinkNotFound instead of
	// treating them as a successfully fetched page.
	RaiseOn404 bool
	// Verbose is the progress level: 0 silent, 1 one marker per Open,
	// >= 2 the full URL per Open.
	Verbose int
	// Debug dumps diagnostics and launches a viewer on failed lookups.
	Debug bool
	// Progress receives verbosity output. Defaults to os.Stdout.
	Progress io.Writer
	// Logger receives structured logs. Defaults to a no-op logger.
	Logger *logging.Logger
}

// DefaultConfig returns browser defaults over a default session.
func DefaultConfig() Config {
	return Config{}
}

// StatefulBrowser orchestrates navigation over a session and tracks the
// current page state.
type StatefulBrowser struct {
	client     *session.Client
	state      *State
	parser     page.Config
	raiseOn404 bool
	debug      bool
	verbose    int
	progress   io.Writer
	log        *logging.Logger
}

// New creates a browser with the provided configuration.
func New(cfg Config) *StatefulBrowser {
	client := cfg.Session
	if client == nil {
		client = session.New(session.DefaultConfig())
	}
	progress := cfg.Progress
	if progress == nil {
		progress = os.Stdout
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}

	return &StatefulBrowser{
		client:     client,
		state:      &State{},
		parser:     cfg.Parser,
		raiseOn404: cfg.RaiseOn404,
		debug:      cfg.Debug,
		verbose:    cfg.Verbose,
		progress:   progress,
		log:        log.Named("browser"),
	}
}

// Session returns the underlying HTTP session.
func (b *StatefulBrowser) Session() *session.Client {
	return b.client
}

// State returns the current snapshot.
func (b *StatefulBrowser) State() *State {
	return b.state
}

// Page returns the current parsed page, nil when none is loaded.
func (b *StatefulBrowser) Page() *page.Document {
	return b.state.page
}

// URL returns the URL of the currently visited page.
func (b *StatefulBrowser) URL() string {
	return b.state.url
}

// Form returns the currently selected form.
func (b *StatefulBrowser) Form() (*page.Form, error) {
	if b.state.form == nil {
		return nil, ErrNoFormSelected
	}
	return b.state.form, nil
}

// AbsoluteURL resolves u against the current page URL. With no current URL
// the input is returned unchanged.
func (b *StatefulBrowser) AbsoluteURL(u string) string {
	if b.state.url == "" {
		return u
	}
	base, err := url.Parse(b.state.url)
	if err != nil {
		return u
	}
	ref, err := url.Parse(u)
	if err != nil {
		return u
	}
	return base.ResolveReference(ref).String()
}

// Open performs a GET on url, parses the response, and replaces the browser
// state. The recorded URL is the final URL after redirects.
func (b *StatefulBrowser) Open(ctx context.Context, rawurl string) (*session.Response, error) {
	return b.open(ctx, rawurl, nil)
}

// OpenRelative is Open with a URL resolved against the current page.
func (b *StatefulBrowser) OpenRelative(ctx context.Context, rawurl string) (*session.Response, error) {
	return b.Open(ctx, b.AbsoluteURL(rawurl))
}

func (b *StatefulBrowser) open(ctx context.Context, rawurl string, headers http.Header) (*session.Response, error) {
	b.progressMark(rawurl)

	req := session.NewRequest(http.MethodGet, rawurl)
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := b.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := b.check404(resp); err != nil {
		return nil, err
	}

	doc, err := page.Parse(string(resp.Body), b.parser)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", resp.URL, err)
	}

	b.state = &State{page: doc, url: resp.URL, request: resp.Request}
	b.log.Debug("Opened page",
		zap.String("url", resp.URL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", resp.Duration))
	return resp, nil
}

// OpenFakePage behaves as if text had been fetched from url, without any
// network access. The resulting state is not refreshable. Useful mainly for
// testing selection and form logic in isolation.
func (b *StatefulBrowser) OpenFakePage(text, rawurl string, cfg *page.Config) (*page.Document, error) {
	parser := b.parser
	if cfg != nil {
		parser = *cfg
	}

	doc, err := page.Parse(text, parser)
	if err != nil {
		return nil, err
	}

	b.state = &State{page: doc, url: rawurl}
	return doc, nil
}

// Refresh re-issues the exact request that produced the current page and
// replaces the state from the new response. Form selection and any filled
// values are discarded.
func (b *StatefulBrowser) Refresh(ctx context.Context) (*session.Response, error) {
	old := b.state.request
	if old == nil {
		return nil, fmt.Errorf("%w: no page opened or page was opened without a request", ErrNotRefreshable)
	}

	resp, err := b.client.Do(ctx, old.Clone())
	if err != nil {
		return nil, err
	}
	if err := b.check404(resp); err != nil {
		return nil, err
	}

	doc, err := page.Parse(string(resp.Body), b.parser)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", resp.URL, err)
	}

	b.state = &State{page: doc, url: resp.URL, request: resp.Request}
	return resp, nil
}

// mergeReferer injects the current URL as the Referer header unless the
// caller already set one. Header lookup is case-insensitive.
func (b *StatefulBrowser) mergeReferer(h http.Header) http.Header {
	if b.state.url == "" {
		return h
	}
	if h == nil {
		h = make(http.Header)
	}
	if h.Get("Referer") == "" {
		h.Set("Referer", b.state.url)
	}
	return h
}

// check404 surfaces 404 as a lookup failure when configured to.
func (b *StatefulBrowser) check404(resp *session.Response) error {
	if b.raiseOn404 && resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s returned 404", ErrLinkNotFound, resp.URL)
	}
	return nil
}
