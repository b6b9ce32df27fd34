package page

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// MaxHTMLSize limits HTML input to 10MB to prevent memory exhaustion.
const MaxHTMLSize = 10 * 1024 * 1024

// Config controls how documents are parsed.
type Config struct {
	// DisableCharsetDetect skips charset detection and assumes UTF-8.
	DisableCharsetDetect bool
	// MaxSize caps the accepted input size in bytes. 0 means MaxHTMLSize.
	MaxSize int
}

// Parse parses an HTML document with automatic charset detection.
func Parse(text string, cfg Config) (*Document, error) {
	max := cfg.MaxSize
	if max <= 0 {
		max = MaxHTMLSize
	}
	if len(text) == 0 {
		return nil, fmt.Errorf("html content required")
	}
	if len(text) > max {
		return nil, fmt.Errorf("html exceeds maximum size of %d bytes", max)
	}

	data := []byte(text)
	doc, err := load(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	return &Document{doc: doc, raw: text}, nil
}

// ParseReader reads and parses an HTML document from r.
func ParseReader(r io.Reader, cfg Config) (*Document, error) {
	max := cfg.MaxSize
	if max <= 0 {
		max = MaxHTMLSize
	}
	data, err := io.ReadAll(io.LimitReader(r, int64(max)+1))
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	return Parse(string(data), cfg)
}

func load(data []byte, cfg Config) (*goquery.Document, error) {
	if cfg.DisableCharsetDetect {
		return goquery.NewDocumentFromReader(bytes.NewReader(data))
	}

	detected := detectCharset(data)
	utf8Reader, err := charset.NewReader(bytes.NewReader(data), detected)
	if err != nil {
		// Fallback to direct parsing
		return goquery.NewDocumentFromReader(bytes.NewReader(data))
	}
	return goquery.NewDocumentFromReader(utf8Reader)
}

// detectCharset detects the charset of raw HTML bytes, defaulting to UTF-8.
func detectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}
