package page

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// Link is a read-only handle on an anchor element with an href attribute.
type Link struct {
	sel *goquery.Selection

	Href string
	Text string
}

// Attr returns an attribute of the underlying anchor element.
func (l *Link) Attr(name string) (string, bool) {
	return l.sel.Attr(name)
}

// Selection exposes the underlying element.
func (l *Link) Selection() *goquery.Selection {
	return l.sel
}

// LinkFilter narrows link discovery. URLPattern is a regular expression
// matched against the href attribute; Text is an exact match against the
// anchor's visible text. Empty fields do not filter.
type LinkFilter struct {
	URLPattern string
	Text       string
}

func (f LinkFilter) compile() (*regexp.Regexp, error) {
	if f.URLPattern == "" {
		return nil, nil
	}
	return regexp.Compile(f.URLPattern)
}
