// Package main is the headless tablet host.
//
// It registers the bundled applications, starts a session, optionally opens
// one application and drives the frame loop without a window. An optional
// admin HTTP API exposes the registry, input injection and the last frame.
//
// Configuration:
//   - Environment variables (TABLET_*, LOG_*, ADMIN_*)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Render 120 frames of the sketchpad and save the last one
//	./tablet -open sketchpad -frames 120 -out frame.png
//
//	# Run until interrupted with the admin API on :8090
//	./tablet -admin -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
