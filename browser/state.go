package browser

import (
	"github.com/GriffinCanCode/BrowseKit/page"
	"github.com/GriffinCanCode/BrowseKit/session"
)

// State is a snapshot of the browser at one point in its navigation history:
// the parsed page, its URL, the selected form, and the request that produced
// the page. Navigation replaces the whole snapshot; only the selected form
// is set after the fact, and it is discarded with the snapshot.
type State struct {
	page    *page.Document
	url     string
	form    *page.Form
	request *session.Request
}

// Page returns the parsed page, or nil when nothing is loaded.
func (s *State) Page() *page.Document {
	return s.page
}

// URL returns the URL of the page, empty for fake pages without one.
func (s *State) URL() string {
	return s.url
}

// Form returns the selected form without error checking. Prefer
// StatefulBrowser.Form.
func (s *State) Form() *page.Form {
	return s.form
}

// Request returns the replayable request that produced the page, nil for
// fake pages.
func (s *State) Request() *session.Request {
	return s.request
}
