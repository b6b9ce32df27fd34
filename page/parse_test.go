package page

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc, err := Parse("<html><head><title>Hello</title></head><body><p>hi</p></body></html>", Config{})
	require.NoError(t, err)
	assert.Equal(t, "Hello", doc.Title())
	assert.Equal(t, "hi", doc.Text())
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse("", Config{})
	assert.Error(t, err)
}

func TestParseSizeLimit(t *testing.T) {
	big := "<p>" + strings.Repeat("a", 100) + "</p>"
	_, err := Parse(big, Config{MaxSize: 50})
	assert.Error(t, err)

	_, err = Parse(big, Config{})
	assert.NoError(t, err)
}

func TestParseReader(t *testing.T) {
	doc, err := ParseReader(strings.NewReader("<title>Reader</title>"), Config{})
	require.NoError(t, err)
	assert.Equal(t, "Reader", doc.Title())
}

func TestParseKeepsRaw(t *testing.T) {
	raw := "<html><body><a href='/x'>x</a></body></html>"
	doc, err := Parse(raw, Config{DisableCharsetDetect: true})
	require.NoError(t, err)
	assert.Equal(t, raw, doc.Raw())
}

func TestDetectCharset(t *testing.T) {
	cs := detectCharset([]byte("<html><body>plain ascii text for detection</body></html>"))
	assert.NotEmpty(t, cs)
}
