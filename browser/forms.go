package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/BrowseKit/page"
	"github.com/GriffinCanCode/BrowseKit/session"
)

// SelectForm selects the nr-th form matching the CSS selector, in document
// order, and stores it as the current form. An empty selector means "form".
// Too few matches yield ErrLinkNotFound, after a debug dump when debug mode
// is active.
func (b *StatefulBrowser) SelectForm(selector string, nr int) (*page.Form, error) {
	if selector == "" {
		selector = "form"
	}
	doc := b.state.page
	if doc == nil {
		return nil, ErrNoPage
	}

	matches := doc.Select(selector, nr+1)
	if len(matches) != nr+1 {
		if b.debug {
			b.log.Warn("SelectForm failed",
				zap.String("selector", selector),
				zap.Int("nr", nr),
				zap.Int("matches", len(matches)))
			b.LaunchBrowser(nil)
		}
		return nil, fmt.Errorf("%w: form %q nr %d", ErrLinkNotFound, selector, nr)
	}

	return b.adoptForm(matches[len(matches)-1])
}

// SelectFormElement selects a form from an element handle obtained earlier,
// e.g. from Document.Find. A non-form element yields ErrLinkNotFound.
func (b *StatefulBrowser) SelectFormElement(sel *goquery.Selection) (*page.Form, error) {
	if b.state.page == nil {
		return nil, ErrNoPage
	}
	if sel == nil || sel.Length() == 0 || !sel.First().Is("form") {
		return nil, fmt.Errorf("%w: element is not a form", ErrLinkNotFound)
	}
	return b.adoptForm(sel.First())
}

func (b *StatefulBrowser) adoptForm(sel *goquery.Selection) (*page.Form, error) {
	form := b.state.page.NewForm(sel)
	b.state.form = form
	return form, nil
}

// SubmitOptions controls SubmitSelected.
type SubmitOptions struct {
	// Button names the submit control to use. Empty picks the first valid
	// submit element in document order, if any.
	Button string
	// OmitSubmit submits without any submit control, as an AJAX-style
	// submission would.
	OmitSubmit bool
	// KeepState submits without replacing the browser state, e.g. for
	// submissions whose response is a file download.
	KeepState bool
	// Headers are extra request headers. A Referer is injected from the
	// current URL unless one is already present, case-insensitively.
	Headers http.Header
}

// SubmitSelected submits the currently selected form per its declared
// method, action, and enctype, and replaces the browser state from the
// response unless KeepState is set.
func (b *StatefulBrowser) SubmitSelected(ctx context.Context, opts SubmitOptions) (*session.Response, error) {
	form, err := b.Form()
	if err != nil {
		return nil, err
	}

	if opts.OmitSubmit {
		err = form.ChooseNoSubmit()
	} else {
		err = form.ChooseSubmit(opts.Button)
	}
	if err != nil {
		if errors.Is(err, page.ErrControlNotFound) {
			return nil, fmt.Errorf("%w: submit control %q", ErrLinkNotFound, opts.Button)
		}
		return nil, err
	}

	req, err := b.buildSubmission(form)
	if err != nil {
		return nil, err
	}

	headers := b.mergeReferer(opts.Headers)
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := b.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := b.check404(resp); err != nil {
		return nil, err
	}

	if opts.KeepState {
		return resp, nil
	}

	doc, err := page.Parse(string(resp.Body), b.parser)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", resp.URL, err)
	}
	b.state = &State{page: doc, url: resp.URL, request: resp.Request}
	b.log.Debug("Submitted form", zap.String("url", resp.URL), zap.Int("status", resp.StatusCode))
	return resp, nil
}

// buildSubmission materializes the request described by the form's method,
// action, and enctype.
func (b *StatefulBrowser) buildSubmission(form *page.Form) (*session.Request, error) {
	payload, err := form.BuildPayload()
	if err != nil {
		return nil, err
	}

	action := b.state.url
	if a := form.Action(); a != "" {
		action = b.AbsoluteURL(a)
	}

	if form.IsMultipart() {
		return multipartRequest(form.Method(), action, payload)
	}

	// Without multipart encoding, file inputs degrade to their path text
	for _, fp := range payload.Files {
		payload.Values.Add(fp.Field, fp.Path)
	}
	return session.NewFormRequest(form.Method(), action, payload.Values), nil
}

func multipartRequest(method, action string, payload *page.Payload) (*session.Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, values := range payload.Values {
		for _, v := range values {
			if err := w.WriteField(name, v); err != nil {
				return nil, err
			}
		}
	}

	for _, fp := range payload.Files {
		if fp.Path == "" {
			if _, err := w.CreateFormFile(fp.Field, ""); err != nil {
				return nil, err
			}
			continue
		}
		part, err := w.CreateFormFile(fp.Field, filepath.Base(fp.Path))
		if err != nil {
			return nil, err
		}
		f, err := os.Open(fp.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", fp.Path, err)
		}
		_, err = io.Copy(part, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s: %w", fp.Path, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	req := session.NewRequest(method, action)
	req.Body = buf.Bytes()
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}
