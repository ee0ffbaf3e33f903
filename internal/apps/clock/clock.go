// Package clock is a sample application that shows how long it has been
// open. It redraws once per second and returns the previous frame in between.
package clock

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/GriffinCanCode/TabletOS/backend/internal/domain/app"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/frame"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/resource"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/text"
)

// ID is the registry id of the clock
const ID = "clock"

// KeyTheme switches between light and dark
const KeyTheme = 'T'

var (
	iconID    = resource.MustParse("tablet:apps/clock/icon.png")
	loadingID = resource.MustParse("tablet:apps/clock/loading.png")
)

// Theme colors
var (
	Light = Palette{Background: color.RGBA{R: 240, G: 240, B: 240, A: 255}, Bar: color.RGBA{R: 30, G: 120, B: 220, A: 255}}
	Dark  = Palette{Background: color.RGBA{R: 20, G: 20, B: 24, A: 255}, Bar: color.RGBA{R: 250, G: 170, B: 30, A: 255}}
)

// Palette is a pair of drawing colors
type Palette struct {
	Background color.RGBA
	Bar        color.RGBA
}

// Clock draws a seconds bar that fills once per minute
type Clock struct {
	*app.Base

	icon       image.Image
	dark       bool
	lastSecond int
	dirty      bool
}

// New creates the clock and registers it with reg
func New(reg *app.Registry, opts ...app.BaseOption) (*Clock, error) {
	c := &Clock{
		Base:       app.NewBase(ID, text.New("app.clock.name", "Clock"), iconID, loadingID, opts...),
		lastSecond: -1,
	}
	if err := reg.Add(c); err != nil {
		return nil, err
	}
	return c, nil
}

// InitResources loads the icon. The clock is unavailable without it.
func (c *Clock) InitResources(loader *resource.Loader) error {
	icon, err := loader.Icon(c.Icon())
	if err != nil {
		return err
	}
	c.icon = icon
	c.dirty = true
	return nil
}

// Render redraws when the displayed second changes
func (c *Clock) Render(prev *frame.Buffer, mouseX, mouseY int) *frame.Buffer {
	seconds := c.UpTimeSeconds()
	if !c.dirty && seconds == c.lastSecond {
		return prev
	}
	c.lastSecond = seconds
	c.dirty = false

	out := frame.New(prev.Width, prev.Height)
	p := c.Palette()
	out.Fill(p.Background)

	barHeight := out.Height / 12
	top := (out.Height - barHeight) / 2
	width := out.Width * (seconds%60 + 1) / 60
	out.FillRect(image.Rect(0, top, width, top+barHeight), p.Bar)

	if c.icon != nil {
		dst := out.Image()
		draw.Draw(dst, c.icon.Bounds().Sub(c.icon.Bounds().Min), c.icon, c.icon.Bounds().Min, draw.Over)
	}
	return out
}

// ResetUpTime also forces a redraw, so reopening never shows a stale frame
func (c *Clock) ResetUpTime() {
	c.Base.ResetUpTime()
	c.dirty = true
}

// OnKeyPressed toggles the theme
func (c *Clock) OnKeyPressed(code int) error {
	if code == KeyTheme {
		c.dark = !c.dark
		c.dirty = true
	}
	return nil
}

// Palette returns the colors for the current theme
func (c *Clock) Palette() Palette {
	if c.dark {
		return Dark
	}
	return Light
}
