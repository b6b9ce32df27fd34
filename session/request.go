package session

import (
	"net/http"
	"net/url"
	"strings"
)

// Request is a fully materialized, replayable HTTP request. The body is held
// as bytes so the same exchange can be re-issued verbatim on refresh.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// NewRequest creates a request with an empty header set.
func NewRequest(method, rawurl string) *Request {
	return &Request{
		Method: strings.ToUpper(method),
		URL:    rawurl,
		Header: make(http.Header),
	}
}

// NewFormRequest creates a request carrying url-encoded form values.
// For GET, the values are merged into the URL query instead of the body.
func NewFormRequest(method, rawurl string, values url.Values) *Request {
	req := NewRequest(method, rawurl)
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		req.URL = mergeQuery(rawurl, values)
		return req
	}
	req.Body = []byte(values.Encode())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// SetHeader sets a header, replacing any existing value. Header names are
// canonicalized, so lookups are case-insensitive.
func (r *Request) SetHeader(key, value string) {
	r.Header.Set(key, value)
}

// HasHeader reports whether a header is present, case-insensitively.
func (r *Request) HasHeader(key string) bool {
	return r.Header.Get(key) != ""
}

// Clone returns a deep copy suitable for replay.
func (r *Request) Clone() *Request {
	out := &Request{
		Method: r.Method,
		URL:    r.URL,
		Header: r.Header.Clone(),
	}
	if r.Body != nil {
		out.Body = make([]byte, len(r.Body))
		copy(out.Body, r.Body)
	}
	return out
}

// mergeQuery folds form values into the raw URL query string.
func mergeQuery(rawurl string, values url.Values) string {
	u, err := url.Parse(rawurl)
	if err != nil {
		return rawurl
	}
	q := u.Query()
	for k, vs := range values {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
