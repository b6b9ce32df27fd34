// Package session provides the HTTP transport for BrowseKit.
//
// It wraps a cookie-aware resty client and exposes replayable requests so a
// page can be refreshed with exactly the request that produced it.
//
// Built on go-resty/resty for production reliability:
//   - Automatic retries with exponential backoff
//   - Connection pooling and keep-alive
//   - Context-based cancellation
//   - Rate limiting per client instance
//
// Features:
//   - Thread-safe client instances
//   - Cookie jar enabled by default
//   - Transparent gzip/zstd response decoding
//   - Prometheus metrics for requests, durations, and bytes received
//
// Example Usage:
//
//	client := session.New(session.DefaultConfig())
//	resp, err := client.Get(ctx, "https://example.com/")
package session
