// Package config provides 12-factor configuration management for the tablet host.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags in cmd/tablet can override individual values.
//
// Configuration Sections:
//   - Device: canvas size, resource directory, language, panic policy
//   - Logging: Log level and output format
//   - Admin: optional admin HTTP API listener
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Canvas %dx%d\n", cfg.Device.Width, cfg.Device.Height)
//
// Environment Variables:
//   - TABLET_WIDTH, TABLET_HEIGHT, TABLET_RESOURCES, TABLET_LANG,
//     TABLET_DEACTIVATE_ON_PANIC
//   - LOG_LEVEL, LOG_DEV
//   - ADMIN_ENABLED, ADMIN_HOST, ADMIN_PORT
package config
