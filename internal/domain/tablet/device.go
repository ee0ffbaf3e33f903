package tablet

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/TabletOS/backend/internal/domain/app"
	"github.com/GriffinCanCode/TabletOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/TabletOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TabletOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/frame"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/resource"
)

const (
	// DefaultWidth and DefaultHeight are the canvas size shared by all applications
	DefaultWidth  = 1144
	DefaultHeight = 912

	// DefaultFaultThreshold is the number of failed frames in a row that
	// quarantines an application
	DefaultFaultThreshold = 5

	// DefaultQuarantine is how long a quarantined application cannot be opened
	DefaultQuarantine = 30 * time.Second
)

var (
	// ErrUnavailable is returned when opening an app whose resources failed to load
	ErrUnavailable = errors.New("application unavailable")

	// ErrFrameSize is returned when an app renders a frame of the wrong size
	ErrFrameSize = errors.New("frame size does not match canvas")

	// ErrQuarantined is returned for an app closed after repeated render failures
	ErrQuarantined = errors.New("application quarantined")
)

// PanicError carries a value recovered from application code
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Config holds device settings
type Config struct {
	Width             int
	Height            int
	DeactivateOnPanic bool

	// FaultThreshold of 0 disables quarantine
	FaultThreshold int
	Quarantine     time.Duration
}

// DefaultConfig returns the standard tablet canvas
func DefaultConfig() Config {
	return Config{
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		DeactivateOnPanic: true,
		FaultThreshold:    DefaultFaultThreshold,
		Quarantine:        DefaultQuarantine,
	}
}

// ConfigFrom converts the environment device section
func ConfigFrom(cfg config.DeviceConfig) Config {
	return Config{
		Width:             cfg.Width,
		Height:            cfg.Height,
		DeactivateOnPanic: cfg.DeactivateOnPanic,
		FaultThreshold:    cfg.FaultThreshold,
		Quarantine:        cfg.Quarantine,
	}
}

// Device is the host that renders the active application.
// Lock order: d.mu before the registry lock. The active app is read under
// d.mu so no close can slip between lookup and call.
type Device struct {
	mu       sync.Mutex
	registry *app.Registry
	loader   *resource.Loader
	cfg      Config

	session  id.SessionID
	loaded   map[string]error // init result per app for the current session
	breakers map[string]*resilience.Breaker
	last     *frame.Buffer
	frames   uint64
	clk      clock.Clock

	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewDevice creates a device over registry. Resources are read through loader.
func NewDevice(registry *app.Registry, loader *resource.Loader, cfg Config) *Device {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Quarantine <= 0 {
		cfg.Quarantine = DefaultQuarantine
	}
	return &Device{
		registry: registry,
		loader:   loader,
		cfg:      cfg,
		loaded:   make(map[string]error),
		breakers: make(map[string]*resilience.Breaker),
		last:     frame.New(cfg.Width, cfg.Height),
		clk:      clock.New(),
		logger:   zap.NewNop(),
	}
}

// WithClock sets the clock used for quarantine timing
func (d *Device) WithClock(clk clock.Clock) *Device {
	if clk != nil {
		d.clk = clk
	}
	return d
}

// WithLogger sets the device logger
func (d *Device) WithLogger(logger *zap.Logger) *Device {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// WithMetrics adds metrics tracking to the device
func (d *Device) WithMetrics(metrics *monitoring.Metrics) *Device {
	d.metrics = metrics
	return d
}

// StartSession begins a new session: the active app is closed and every
// registered app loads its resources.
func (d *Device) StartSession() id.SessionID {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.registry.Deactivate()
	d.session = id.NewSessionID()
	d.loaded = make(map[string]error)
	for _, br := range d.breakers {
		br.Reset()
	}
	d.last = frame.New(d.cfg.Width, d.cfg.Height)
	d.frames = 0

	failed := 0
	for _, a := range d.registry.List() {
		if d.initLocked(a) != nil {
			failed++
		}
	}

	d.logger.Info("Session started",
		zap.String("session", d.session.String()),
		zap.Int("apps", d.registry.Len()),
		zap.Int("unavailable", failed),
	)
	return d.session
}

// initLocked runs InitResources once per session. Caller must hold d.mu.
func (d *Device) initLocked(a app.Application) error {
	appID := a.ID()
	if err, done := d.loaded[appID]; done {
		return err
	}

	err := d.contain(appID, "init", func() error {
		return a.InitResources(d.loader)
	})
	if err != nil {
		err = &app.ResourceLoadError{AppID: appID, Err: err}
		d.logger.Warn("Application unavailable", zap.String("app", appID), zap.Error(err))
		if d.metrics != nil {
			d.metrics.RecordFailure(appID, "init")
		}
	}
	d.loaded[appID] = err
	return err
}

// Open activates an application. Apps registered after the session started
// load their resources here.
func (d *Device) Open(appID string) error {
	a, ok := d.registry.Get(appID)
	if !ok {
		return fmt.Errorf("%w: %s", app.ErrNotFound, appID)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.initLocked(a); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if d.quarantinedLocked(appID) {
		return fmt.Errorf("%w: %s: %w", ErrQuarantined, appID, resilience.ErrCircuitOpen)
	}
	return d.registry.Activate(appID)
}

// Quarantined reports whether appID is refused after repeated render failures
func (d *Device) Quarantined(appID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quarantinedLocked(appID)
}

func (d *Device) quarantinedLocked(appID string) bool {
	br, ok := d.breakers[appID]
	return ok && br.State() == resilience.StateOpen
}

// breakerLocked returns the render breaker of appID, or nil when quarantine is
// disabled. Caller must hold d.mu.
func (d *Device) breakerLocked(appID string) *resilience.Breaker {
	if d.cfg.FaultThreshold <= 0 {
		return nil
	}
	br, ok := d.breakers[appID]
	if !ok {
		br = resilience.New(appID, resilience.Settings{
			Timeout:     d.cfg.Quarantine,
			ReadyToTrip: resilience.ConsecutiveFailures(uint32(d.cfg.FaultThreshold)),
			Clock:       d.clk,
		})
		d.breakers[appID] = br
	}
	return br
}

// Close deactivates the active application
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registry.Deactivate()
}

// Available reports whether appID loaded its resources this session
func (d *Device) Available(appID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	err, done := d.loaded[appID]
	return done && err == nil
}

// Unavailable returns the load error of every unavailable app
func (d *Device) Unavailable() map[string]error {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]error)
	for appID, err := range d.loaded {
		if err != nil {
			out[appID] = err
		}
	}
	return out
}

// Render draws one frame of the active application. With no active app the
// previous frame is returned. A nil frame from the app means "no change".
func (d *Device) Render(mouseX, mouseY int) (*frame.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	a, ok := d.registry.Active()
	if !ok {
		return d.last, nil
	}

	x, y := d.clamp(mouseX, mouseY)
	prev := d.last

	br := d.breakerLocked(a.ID())
	done := func(bool) {}
	if br != nil {
		var err error
		if done, err = br.Allow(); err != nil {
			d.quarantine(a.ID())
			return d.last, &app.ApplicationError{
				AppID: a.ID(),
				Stage: "render",
				Err:   fmt.Errorf("%w: %w", ErrQuarantined, err),
			}
		}
	}

	var out *frame.Buffer
	timer := monitoring.NewTimer(d.metrics, a.ID())
	err := d.contain(a.ID(), "render", func() error {
		out = a.Render(prev, x, y)
		return nil
	})
	timer.Stop()

	if err == nil && out != nil && (out.Width != d.cfg.Width || out.Height != d.cfg.Height) {
		err = &app.ApplicationError{
			AppID: a.ID(),
			Stage: "render",
			Err:   fmt.Errorf("%w: got %dx%d", ErrFrameSize, out.Width, out.Height),
		}
	}
	done(err == nil)
	if err != nil {
		d.failed(a.ID(), "render", err)
		if br != nil && br.State() == resilience.StateOpen {
			d.quarantine(a.ID())
		}
		return d.last, err
	}

	if out != nil {
		d.last = out
	}
	d.frames++
	return d.last, nil
}

// MousePressed forwards a click to the active application
func (d *Device) MousePressed(x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	a, ok := d.registry.Active()
	if !ok {
		return nil
	}

	x, y = d.clamp(x, y)
	if d.metrics != nil {
		d.metrics.RecordInput(a.ID(), "mouse")
	}
	err := d.contain(a.ID(), "mouse", func() error {
		return a.OnMousePressed(x, y)
	})
	if err != nil {
		d.failed(a.ID(), "mouse", err)
	}
	return err
}

// KeyPressed forwards a key press to the active application
func (d *Device) KeyPressed(code int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	a, ok := d.registry.Active()
	if !ok {
		return nil
	}

	if d.metrics != nil {
		d.metrics.RecordInput(a.ID(), "key")
	}
	err := d.contain(a.ID(), "key", func() error {
		return a.OnKeyPressed(code)
	})
	if err != nil {
		d.failed(a.ID(), "key", err)
	}
	return err
}

// Shutdown closes the active application and clears the registry
func (d *Device) Shutdown() {
	d.mu.Lock()
	d.registry.Deactivate()
	d.registry.Clear()
	session := d.session
	d.loaded = make(map[string]error)
	d.mu.Unlock()

	d.logger.Info("Device shut down", zap.String("session", session.String()))
}

// SessionID returns the current session ID (empty before StartSession)
func (d *Device) SessionID() id.SessionID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session
}

// Size returns the canvas size
func (d *Device) Size() (width, height int) {
	return d.cfg.Width, d.cfg.Height
}

// Frames returns the number of frames rendered this session
func (d *Device) Frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// LastFrame returns the most recent frame
func (d *Device) LastFrame() *frame.Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Loader returns the resource loader applications initialize from
func (d *Device) Loader() *resource.Loader {
	return d.loader
}

// Registry returns the registry the device drives
func (d *Device) Registry() *app.Registry {
	return d.registry
}

func (d *Device) clamp(x, y int) (int, int) {
	return clampInt(x, 0, d.cfg.Width-1), clampInt(y, 0, d.cfg.Height-1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// contain runs application code, converting returned errors and panics into
// *app.ApplicationError.
func (d *Device) contain(appID, stage string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &app.ApplicationError{AppID: appID, Stage: stage, Err: &PanicError{Value: r}}
		}
	}()

	if err := fn(); err != nil {
		return &app.ApplicationError{AppID: appID, Stage: stage, Err: err}
	}
	return nil
}

// quarantine closes appID after its breaker opened. Caller must hold d.mu.
func (d *Device) quarantine(appID string) {
	if d.registry.IsActive(appID) {
		d.registry.Deactivate()
	}
	if d.metrics != nil {
		d.metrics.RecordFailure(appID, "quarantine")
	}
	d.logger.Warn("Application quarantined",
		zap.String("app", appID),
		zap.Duration("for", d.cfg.Quarantine),
	)
}

// failed logs an application failure and applies the panic policy.
// Caller must hold d.mu.
func (d *Device) failed(appID, stage string, err error) {
	if d.metrics != nil {
		d.metrics.RecordFailure(appID, stage)
	}

	var p *PanicError
	panicked := errors.As(err, &p)

	d.logger.Error("Application failed",
		zap.String("app", appID),
		zap.String("stage", stage),
		zap.Bool("panicked", panicked),
		zap.Error(err),
	)

	if panicked && d.cfg.DeactivateOnPanic && d.registry.IsActive(appID) {
		d.registry.Deactivate()
		d.logger.Warn("Application closed after panic", zap.String("app", appID))
	}
}
