/*
Package monitoring provides metrics collection for the tablet host.

# Overview

This package implements Prometheus-based metrics for application lifecycle,
frame rendering, input forwarding and the admin HTTP API.

# Features

- Registered and active application gauges
- Activation and failure counters per application
- Render duration histogram per application
- Input event counters
- Admin request metrics
- Host uptime
- Frame time summaries (mean, deviation, percentiles) over a sliding window

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	// Add middleware to the admin router
	router.Use(monitoring.Middleware(metrics))

	// Time a render
	timer := monitoring.NewTimer(metrics, "clock")
	// ... render ...
	timer.Stop()

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
