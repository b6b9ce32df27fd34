package session

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Config defines transport behavior for a Client.
type Config struct {
	UserAgent       string
	Timeout         time.Duration
	RetryMax        int
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	RateLimitRPS    float64 // 0 means unlimited
	FollowRedirects bool
	MaxRedirects    int
	VerifySSL       bool
	Proxy           string
}

// DefaultConfig returns production-ready transport configuration.
func DefaultConfig() Config {
	return Config{
		UserAgent:       "BrowseKit/1.0",
		Timeout:         30 * time.Second,
		RetryMax:        3,
		RetryWaitMin:    1 * time.Second,
		RetryWaitMax:    30 * time.Second,
		FollowRedirects: true,
		MaxRedirects:    10,
		VerifySSL:       true,
	}
}

// Client wraps resty with rate limiting, a cookie jar, and replayable requests.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	mu      sync.RWMutex
}

// New creates a production-ready HTTP session.
func New(cfg Config) *Client {
	// Underlying retryable client supplies the transport
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil // Disable logging

	jar, _ := cookiejar.New(nil)

	restyClient := resty.New()
	restyClient.
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryMax).
		SetRetryWaitTime(cfg.RetryWaitMin).
		SetRetryMaxWaitTime(cfg.RetryWaitMax).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept-Encoding", acceptEncoding).
		SetCookieJar(jar)

	restyClient.SetTransport(retryClient.HTTPClient.Transport)

	if cfg.FollowRedirects {
		max := cfg.MaxRedirects
		if max <= 0 {
			max = 10
		}
		restyClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(max))
	} else {
		restyClient.SetRedirectPolicy(resty.NoRedirectPolicy())
	}

	if !cfg.VerifySSL {
		restyClient.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	if cfg.Proxy != "" {
		restyClient.SetProxy(cfg.Proxy)
	}

	limiter := rate.NewLimiter(rate.Inf, 0) // Unlimited by default
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), int(cfg.RateLimitRPS)+1)
	}

	return &Client{
		resty:   restyClient,
		limiter: limiter,
	}
}

// SetHeader adds a default header sent with every request.
func (c *Client) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.SetHeader(key, value)
}

// RemoveHeader removes a default header.
func (c *Client) RemoveHeader(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.Header.Del(key)
}

// Headers returns a copy of all default headers.
func (c *Client) Headers() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	headers := make(map[string]string)
	for k, v := range c.resty.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return headers
}

// SetTimeout configures request timeout.
func (c *Client) SetTimeout(duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.SetTimeout(duration)
}

// SetRetry configures retry behavior.
func (c *Client) SetRetry(maxRetries int, minWait, maxWait time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.SetRetryCount(maxRetries).
		SetRetryWaitTime(minWait).
		SetRetryMaxWaitTime(maxWait)
}

// SetRateLimit configures rate limiting (requests per second).
func (c *Client) SetRateLimit(rps float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rps <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
	} else {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
}

// SetBasicAuth configures basic authentication.
func (c *Client) SetBasicAuth(username, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.SetBasicAuth(username, password)
}

// SetBearerAuth configures bearer token authentication.
func (c *Client) SetBearerAuth(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.SetAuthToken(token)
}

// Jar returns the client cookie jar.
func (c *Client) Jar() http.CookieJar {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resty.GetClient().Jar
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodGet, url))
}

// Download performs the request and writes the decoded body to w, returning
// the response for header and status inspection. The body stays available on
// the response as well.
func (c *Client) Download(ctx context.Context, req *Request, w io.Writer) (*Response, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := resp.WriteTo(w); err != nil {
		return nil, fmt.Errorf("failed to write download: %w", err)
	}
	return resp, nil
}

// Do sends a replayable request and records the request on the response so
// the exact exchange can be re-issued later.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	c.mu.RLock()
	r := c.resty.R().SetContext(ctx)
	c.mu.RUnlock()

	for key, values := range req.Header {
		for _, v := range values {
			r.SetHeader(key, v)
		}
	}
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		observe(req.Method, 0, 0, 0)
		return nil, fmt.Errorf("request failed: %w", err)
	}

	out, err := newResponse(resp, req.Clone())
	if err != nil {
		return nil, err
	}

	observe(req.Method, out.StatusCode, out.Duration, len(out.Body))
	return out, nil
}
