package session

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// acceptEncoding advertises the codings the session can decode itself.
// Setting the header explicitly disables net/http transparent decoding,
// so decode must handle everything listed here.
const acceptEncoding = "gzip, zstd"

// Response is the outcome of a completed exchange. URL is the final URL
// after any redirects, and Request is the replayable request as sent.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	URL        string
	Duration   time.Duration
	Request    *Request
}

func newResponse(resp *resty.Response, sent *Request) (*Response, error) {
	body, err := decode(resp.Body(), resp.Header().Get("Content-Encoding"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	finalURL := sent.URL
	if resp.RawResponse != nil && resp.RawResponse.Request != nil {
		finalURL = resp.RawResponse.Request.URL.String()
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Header:     resp.Header().Clone(),
		Body:       body,
		URL:        finalURL,
		Duration:   resp.Time(),
		Request:    sent,
	}, nil
}

// ContentType returns the declared content type, sniffing the body when the
// server did not declare one.
func (r *Response) ContentType() string {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return mimetype.Detect(r.Body).String()
}

// IsHTML reports whether the response body looks like an HTML document.
func (r *Response) IsHTML() bool {
	ct := r.ContentType()
	return strings.Contains(ct, "html") || strings.Contains(ct, "xml")
}

// WriteTo writes the raw body to w.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Body)
	return int64(n), err
}

// WriteFile writes the raw body to path, overwriting any existing file.
// The file handle is closed before returning, on success or failure.
func (r *Response) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.Write(r.Body); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// decode reverses the content coding applied by the server.
func decode(body []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, nil
	case "gzip":
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case "zstd":
		zr, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return zr.DecodeAll(body, nil)
	default:
		// Unknown coding is passed through untouched
		return body, nil
	}
}
