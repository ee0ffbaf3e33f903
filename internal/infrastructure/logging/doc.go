// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Host components receive a named child logger so every line carries the
// component that produced it.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	reg := app.NewRegistry().WithLogger(logger.Component("registry"))
//	logger.Info("Session started", zap.String("session", sid.String()))
package logging
