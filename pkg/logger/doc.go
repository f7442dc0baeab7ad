// Package logger provides structured logging for the scraper.
//
// It wraps zerolog behind a small interface with support for:
//   - multiple log levels (Debug, Info, Warn, Error, Fatal)
//   - structured logging with fields
//   - pretty console output with colored levels
//   - optional JSON file output
//   - a global instance plus package-level convenience functions
//
// Basic usage:
//
//	err := logger.Initialize(logger.Options{Level: "info"})
//	logger.WithField("handle", "jack").Info("Collection started")
//	logger.WithError(err).Error("Session load failed")
//
// Components that need assertable logs in tests accept a logger.Logger and
// receive a *TestLogger from logger.NewTestLogger().
package logger
