// Package browser implements a stateful web-browsing client.
//
// A StatefulBrowser wraps an HTTP session and an HTML parse tree, tracks the
// current page across navigation, and offers convenience operations for form
// selection and submission, link discovery, and link following or download.
//
// Every navigation (Open, Refresh, SubmitSelected, FollowLink) replaces the
// browser state atomically with a snapshot built from the response. Read
// operations (Page, URL, Form, Links) observe the current snapshot.
//
// A StatefulBrowser is a single logical thread of control: it is not safe
// for concurrent use, though independent instances share nothing.
//
// Example Usage:
//
//	b := browser.New(browser.DefaultConfig())
//	if _, err := b.Open(ctx, "https://example.com/login"); err != nil {
//		return err
//	}
//	form, _ := b.SelectForm("form#login", 0)
//	form.Input("user", "me")
//	form.Input("pass", "secret")
//	_, err := b.SubmitSelected(ctx, browser.SubmitOptions{})
package browser
