package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/BrowseKit/page"
	"github.com/GriffinCanCode/BrowseKit/session"
)

// Links returns the page's anchors carrying an href, in document order,
// filtered per f.
func (b *StatefulBrowser) Links(f page.LinkFilter) ([]*page.Link, error) {
	if b.state.page == nil {
		return nil, ErrNoPage
	}
	return b.state.page.Links(f)
}

// FindLink returns the first link matching f, or ErrLinkNotFound.
func (b *StatefulBrowser) FindLink(f page.LinkFilter) (*page.Link, error) {
	links, err := b.Links(f)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, ErrLinkNotFound
	}
	return links[0], nil
}

// LinkRef identifies a link for FollowLink and DownloadLink: either an
// already resolved handle, or a raw href pattern, or a filter. Supplying
// both a Pattern and a Filter.URLPattern is an error.
type LinkRef struct {
	Link    *page.Link
	Pattern string
	Filter  page.LinkFilter
}

// RequestOptions carries extra headers for link operations. A Referer is
// injected from the current URL unless one is present, case-insensitively.
type RequestOptions struct {
	Headers http.Header
}

// resolveLink normalizes a LinkRef to a concrete link. On lookup failure in
// debug mode, the page's links are logged and the viewer is launched before
// the error propagates.
func (b *StatefulBrowser) resolveLink(ref LinkRef) (*page.Link, error) {
	if ref.Link != nil {
		return ref.Link, nil
	}

	filter := ref.Filter
	if ref.Pattern != "" {
		if filter.URLPattern != "" {
			return nil, fmt.Errorf("%w: %q", ErrConflictingArguments, ref.Pattern)
		}
		filter.URLPattern = ref.Pattern
	}

	link, err := b.FindLink(filter)
	if err != nil {
		if b.debug && errors.Is(err, ErrLinkNotFound) {
			b.listLinks()
			b.LaunchBrowser(nil)
		}
		return nil, err
	}
	return link, nil
}

// FollowLink resolves the link, injects the Referer, and navigates to its
// href relative to the current page. Browser state is replaced.
func (b *StatefulBrowser) FollowLink(ctx context.Context, ref LinkRef, opts *RequestOptions) (*session.Response, error) {
	link, err := b.resolveLink(ref)
	if err != nil {
		return nil, err
	}

	var headers http.Header
	if opts != nil {
		headers = opts.Headers
	}
	headers = b.mergeReferer(headers)

	return b.open(ctx, b.AbsoluteURL(link.Href), headers)
}

// DownloadLink resolves the link, injects the Referer, and fetches its
// target with a direct GET outside the state machine. When path is not
// empty the raw body is written there, overwriting any existing file.
// Browser state is never modified, success or failure.
func (b *StatefulBrowser) DownloadLink(ctx context.Context, ref LinkRef, path string, opts *RequestOptions) (*session.Response, error) {
	link, err := b.resolveLink(ref)
	if err != nil {
		return nil, err
	}

	req := session.NewRequest(http.MethodGet, b.AbsoluteURL(link.Href))
	var headers http.Header
	if opts != nil {
		headers = opts.Headers
	}
	for k, vs := range b.mergeReferer(headers) {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := b.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if b.raiseOn404 && resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s returned 404", ErrLinkNotFound, resp.URL)
	}

	if path != "" {
		if err := resp.WriteFile(path); err != nil {
			return nil, err
		}
		b.log.Debug("Downloaded link",
			zap.String("url", resp.URL),
			zap.String("path", path),
			zap.String("content_type", resp.ContentType()),
			zap.Int("bytes", len(resp.Body)))
	}
	return resp, nil
}

// listLinks logs the links of the current page, as a debugging aid.
func (b *StatefulBrowser) listLinks() {
	links, err := b.Links(page.LinkFilter{})
	if err != nil {
		return
	}
	for _, l := range links {
		b.log.Info("Page link", zap.String("href", l.Href), zap.String("text", l.Text))
	}
}
