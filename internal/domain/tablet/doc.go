// Package tablet implements the host side of the virtual tablet.
//
// A Device owns the canvas size, drives application sessions and is the
// containment boundary between the frame/input loop and application code:
// registry and dispatch code never recover from application failures, the
// device does.
//
// Session Lifecycle:
//  1. StartSession calls InitResources on every registered application;
//     failures mark the application unavailable for the session
//  2. Open activates an available application (uptime resets to zero)
//  3. Render and input calls go to the active application only
//  4. Shutdown deactivates and clears the registry
//
// Failure Policy:
//   - Errors returned by input callbacks are logged; the app stays active
//   - Panics in render or input are recovered into *app.ApplicationError;
//     with DeactivateOnPanic the app is closed
//   - FaultThreshold failed frames in a row quarantine the app: it is closed
//     and Open returns ErrQuarantined until the Quarantine period has passed
//
// Example Usage:
//
//	dev := tablet.NewDevice(reg, loader, tablet.DefaultConfig()).WithLogger(logger)
//	dev.StartSession()
//	if err := dev.Open("clock"); err != nil {
//	    logger.Warn("cannot open", zap.Error(err))
//	}
//	frame, err := dev.Render(mouseX, mouseY)
package tablet
