package app

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/frame"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/resource"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/text"
)

// Application is a pluggable unit of behavior presented on the tablet
type Application interface {
	// Identity, immutable for the application's lifetime
	ID() string
	DisplayName() text.Text
	Icon() resource.ID
	LoadingScreen() resource.ID

	// InitResources is called once per session before the application can
	// be opened. An error makes the application unavailable for the session.
	InitResources(loader *resource.Loader) error

	// Render is called every frame while the application is active. It may
	// return prev unchanged to signal that nothing changed. prev is shared
	// with frame readers and must not be modified; draw into a new buffer.
	// Mouse coordinates are in canvas space.
	Render(prev *frame.Buffer, mouseX, mouseY int) *frame.Buffer

	// Input callbacks, only fired while the application is active
	OnMousePressed(x, y int) error
	OnKeyPressed(code int) error

	// Uptime since the application was last opened
	UpTime() time.Duration
	UpTimeSeconds() int
	ResetUpTime()
}

// Info is a serializable view of an application's identity
type Info struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	LoadingScreen string `json:"loading_screen"`
}

// Describe returns the identity of a
func Describe(a Application) Info {
	return Info{
		ID:            a.ID(),
		Name:          a.DisplayName().String(),
		Icon:          a.Icon().String(),
		LoadingScreen: a.LoadingScreen().String(),
	}
}

// Base carries the identity and uptime every application shares.
// Embed it and implement InitResources and Render.
type Base struct {
	id            string
	name          text.Text
	icon          resource.ID
	loadingScreen resource.ID
	uptime        *Uptime
}

// BaseOption configures a Base
type BaseOption func(*Base)

// WithClock drives the uptime from clk instead of the wall clock
func WithClock(clk clock.Clock) BaseOption {
	return func(b *Base) {
		b.uptime = NewUptime(clk)
	}
}

// NewBase creates the shared part of an application.
// The ID should be unique, e.g. "modid_nameofapp"; uniqueness is enforced by
// Registry.Add.
func NewBase(id string, name text.Text, icon, loadingScreen resource.ID, opts ...BaseOption) *Base {
	b := &Base{
		id:            id,
		name:          name,
		icon:          icon,
		loadingScreen: loadingScreen,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.uptime == nil {
		b.uptime = NewUptime(nil)
	}
	return b
}

func (b *Base) ID() string                 { return b.id }
func (b *Base) DisplayName() text.Text     { return b.name }
func (b *Base) Icon() resource.ID          { return b.icon }
func (b *Base) LoadingScreen() resource.ID { return b.loadingScreen }

// OnMousePressed does nothing by default
func (b *Base) OnMousePressed(x, y int) error { return nil }

// OnKeyPressed does nothing by default
func (b *Base) OnKeyPressed(code int) error { return nil }

// UpTime returns the time since the last ResetUpTime, or since construction
func (b *Base) UpTime() time.Duration { return b.uptime.Elapsed() }

// UpTimeSeconds returns UpTime in whole seconds
func (b *Base) UpTimeSeconds() int { return b.uptime.Seconds() }

// ResetUpTime restarts the uptime clock at zero
func (b *Base) ResetUpTime() { b.uptime.Reset() }
