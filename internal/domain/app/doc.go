// Package app provides application lifecycle management for the tablet.
//
// Applications are pluggable units of behavior presented on the virtual
// device. Each one has an immutable identity (ID, display name, icon,
// loading screen), renders frames while active, receives input callbacks
// and tracks its uptime since it was last opened.
//
// Key Components:
//   - Application: the capability every app implements
//   - Base: embeddable identity, uptime clock and no-op input callbacks
//   - Registry: registration, exclusive activation and lookup
//
// The registry is the only place that knows which application is active.
// Activation is tracked as a single optional ID, so no application can
// observe itself as active while another one is.
//
// Example Usage:
//
//	reg := app.NewRegistry().WithLogger(logger)
//	clock, err := clock.New(reg)  // constructors register the app
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = reg.Activate(clock.ID())
package app
