// Package config provides 12-factor configuration management for BrowseKit.
//
// Configuration is loaded from environment variables with sensible defaults.
// An optional YAML file can overlay the result; file values win when both
// are given.
//
// Configuration Sections:
//   - Session: HTTP transport settings (user agent, timeout, retries, rate limit)
//   - Browser: browsing behavior (404 handling, verbosity, debug mode)
//   - Logging: log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("User agent: %s\n", cfg.Session.UserAgent)
//
// Environment Variables:
//   - BROWSEKIT_USER_AGENT, BROWSEKIT_TIMEOUT, BROWSEKIT_RETRY_MAX
//   - BROWSEKIT_RATE_LIMIT_RPS, BROWSEKIT_FOLLOW_REDIRECTS, BROWSEKIT_VERIFY_SSL
//   - BROWSEKIT_RAISE_ON_404, BROWSEKIT_VERBOSE, BROWSEKIT_DEBUG
//   - BROWSEKIT_LOG_LEVEL, BROWSEKIT_LOG_DEV
package config
