// Package main is the entry point for the browsekit CLI.
//
// browsekit opens a page through the stateful browsing client and reports
// what it found: links, forms, or page metadata. It can also follow a link
// or download one to disk, exercising the same state machine the library
// exposes.
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional YAML file (-config)
//   - CLI flags (override both)
//
// Usage:
//
//	# List links on a page, as text or JSON
//	browsekit -url https://example.com -links
//	browsekit -url https://example.com -links -json
//
//	# Inspect forms and metadata
//	browsekit -url https://example.com -forms -info
//
//	# Follow the first link matching a pattern, then download another
//	browsekit -url https://example.com -follow '^/docs'
//	browsekit -url https://example.com -download '\.pdf$' -out manual.pdf
package main
