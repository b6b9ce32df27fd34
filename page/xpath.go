package page

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// nodes lazily parses the raw input into an xpath-compatible node tree.
// The tree is independent of the goquery document, so XPath queries see the
// page as served, not as filled.
func (d *Document) nodes() (*html.Node, error) {
	d.nodeOnce.Do(func() {
		d.node, d.nodeErr = htmlquery.Parse(strings.NewReader(d.raw))
	})
	return d.node, d.nodeErr
}

// XPath returns all nodes matching the XPath expression.
func (d *Document) XPath(expr string) ([]*html.Node, error) {
	root, err := d.nodes()
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	nodes, err := htmlquery.QueryAll(root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	return nodes, nil
}

// XPathText returns the inner text of the first node matching the
// expression, or an empty string when nothing matches.
func (d *Document) XPathText(expr string) (string, error) {
	root, err := d.nodes()
	if err != nil {
		return "", fmt.Errorf("parse failed: %w", err)
	}
	node, err := htmlquery.Query(root, expr)
	if err != nil {
		return "", fmt.Errorf("xpath query failed: %w", err)
	}
	if node == nil {
		return "", nil
	}
	return strings.TrimSpace(htmlquery.InnerText(node)), nil
}

// XPathAttr returns the given attribute of the first matching node.
func (d *Document) XPathAttr(expr, attr string) (string, error) {
	root, err := d.nodes()
	if err != nil {
		return "", fmt.Errorf("parse failed: %w", err)
	}
	node, err := htmlquery.Query(root, expr)
	if err != nil {
		return "", fmt.Errorf("xpath query failed: %w", err)
	}
	if node == nil {
		return "", nil
	}
	return htmlquery.SelectAttr(node, attr), nil
}
