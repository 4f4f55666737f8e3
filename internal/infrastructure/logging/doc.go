// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// AccessLog is a Gin middleware that writes one line per request, tagged with
// the request ID assigned by the request-ID middleware.
//
// Example Usage:
//
//	logger := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)
//	logger.Info("Server starting", zap.String("port", "5000"))
//	logger.Error("Launch failed", zap.Error(err))
package logging
