// Package http provides the admin REST API of the tablet host.
//
// The API lets an operator inspect and drive a running device from another
// process. Handlers only call the device and registry; every lifecycle rule
// is enforced there.
//
// Endpoints:
//   - Health: /health
//   - Apps: /apps, /apps/active, /apps/:id, /apps/:id/open, /apps/close
//   - Input: /input/mouse, /input/key
//   - Frame: /frame (PNG of the last rendered frame)
//   - Resources: /resources?namespace=tablet&pattern=apps/**/*.png
//   - Metrics: /metrics (Prometheus), /metrics/json, /metrics/frames
//
// Example Usage:
//
//	handlers := http.NewHandlers(device, catalog, "en", metrics)
//	router.GET("/apps", handlers.ListApps)
//	router.POST("/apps/:id/open", handlers.OpenApp)
package http
