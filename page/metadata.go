package page

import (
	"github.com/PuerkitoBio/goquery"
)

// Metadata holds page-level metadata extracted from the head.
type Metadata struct {
	Title     string            `json:"title"`
	Meta      map[string]string `json:"meta"`
	Canonical string            `json:"canonical,omitempty"`
}

// Metadata extracts the title, meta tags keyed by name or property, and the
// canonical link.
func (d *Document) Metadata() *Metadata {
	md := &Metadata{
		Title: d.Title(),
		Meta:  make(map[string]string),
	}

	d.doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		key := s.AttrOr("name", "")
		if key == "" {
			key = s.AttrOr("property", "")
		}
		if key == "" {
			return
		}
		if content, ok := s.Attr("content"); ok {
			md.Meta[key] = content
		}
	})

	if href, ok := d.doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		md.Canonical = href
	}
	return md
}
