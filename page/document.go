package page

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var sanitizer = bluemonday.UGCPolicy()

// Document is a parsed HTML page. It is read-only from the browser's point
// of view except for form filling, which mutates control attributes in the
// tree the way a user typing into the page would.
type Document struct {
	doc *goquery.Document
	raw string

	nodeOnce sync.Once
	node     *html.Node
	nodeErr  error
}

// Select returns up to limit elements matching the CSS selector, in document
// order. A limit of 0 returns all matches.
func (d *Document) Select(selector string, limit int) []*goquery.Selection {
	var out []*goquery.Selection
	d.doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		out = append(out, s)
		return limit <= 0 || len(out) < limit
	})
	return out
}

// Find exposes the underlying goquery selection for free-form queries.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Title returns the page title, trimmed.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// Text returns the visible text of the page with normalized whitespace.
func (d *Document) Text() string {
	return strings.Join(strings.Fields(d.doc.Text()), " ")
}

// HTML renders the current state of the parse tree, including any form
// values filled in after parsing.
func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}

// SanitizedHTML renders the page through the UGC sanitization policy.
// Used by the debug viewer so dumped pages carry no live scripts.
func (d *Document) SanitizedHTML() (string, error) {
	h, err := d.HTML()
	if err != nil {
		return "", err
	}
	return sanitizer.Sanitize(h), nil
}

// Raw returns the original unparsed input.
func (d *Document) Raw() string {
	return d.raw
}

// Links returns all anchors carrying an href, in document order, filtered
// per f.
func (d *Document) Links(f LinkFilter) ([]*Link, error) {
	re, err := f.compile()
	if err != nil {
		return nil, err
	}

	var links []*Link
	d.doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		link := &Link{sel: s, Href: href, Text: s.Text()}
		if re != nil && !re.MatchString(href) {
			return
		}
		if f.Text != "" && link.Text != f.Text {
			return
		}
		links = append(links, link)
	})
	return links, nil
}

// Forms returns all forms on the page, in document order, with form-owner
// association applied.
func (d *Document) Forms() []*Form {
	var forms []*Form
	d.doc.Find("form").Each(func(i int, s *goquery.Selection) {
		forms = append(forms, d.NewForm(s))
	})
	return forms
}
