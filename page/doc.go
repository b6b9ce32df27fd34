// Package page provides the parsed-document model for BrowseKit.
//
// A Document wraps a goquery parse tree and exposes CSS selection, link and
// form discovery, XPath queries, and metadata extraction.
//
// Built on specialized libraries:
//   - goquery: jQuery-like CSS selectors
//   - htmlquery: XPath support for HTML
//   - bluemonday: HTML sanitization for the debug viewer
//   - chardet: Character encoding detection
//
// Features:
//   - Automatic charset detection and conversion
//   - HTML form-owner semantics (controls bound by a form attribute)
//   - Form filling and submission payload construction
package page
