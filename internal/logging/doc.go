// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// The zero-value default for the library is a no-op logger, so embedding
// applications stay silent unless they opt in.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Opening page", zap.String("url", url))
//	logger.Error("Request failed", zap.Error(err))
package logging
