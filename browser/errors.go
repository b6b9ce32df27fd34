package browser

import "errors"

var (
	// ErrLinkNotFound reports a failed link or form lookup.
	ErrLinkNotFound = errors.New("link not found")

	// ErrNoFormSelected reports access to the form before SelectForm.
	ErrNoFormSelected = errors.New("no form has been selected on this page")

	// ErrNotRefreshable reports a Refresh with no prior request, e.g. after
	// OpenFakePage or before any navigation.
	ErrNotRefreshable = errors.New("current page is not refreshable")

	// ErrConflictingArguments reports a link lookup given both a raw
	// pattern and an explicit URL pattern filter.
	ErrConflictingArguments = errors.New("link pattern conflicts with URLPattern filter")

	// ErrNoPage reports a read operation with no page loaded.
	ErrNoPage = errors.New("no page loaded")
)
