// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// When Config.File is set, every entry is also written as JSON to a
// lumberjack-rotated file.
//
// Example Usage:
//
//	logger, err := logging.New(logging.DefaultConfig())
//	log := logger.Component("session")
//	log.Info("layout saved", zap.String("reason", "prompt-settle"))
package logging
