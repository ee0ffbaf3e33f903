// Package sketchpad is a sample application built on a dispatching screen.
// Clicks leave dots, the cursor is drawn every frame and 'C' clears the pad.
package sketchpad

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/GriffinCanCode/TabletOS/backend/internal/domain/app"
	"github.com/GriffinCanCode/TabletOS/backend/internal/domain/screen"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/frame"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/resource"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/text"
)

const (
	// ID is the registry id of the sketchpad
	ID = "sketchpad"

	// KeyClear erases all dots
	KeyClear = 'C'

	// DotRadius is half the side of a dot
	DotRadius = 2
)

var (
	iconID    = resource.MustParse("tablet:apps/sketchpad/icon.png")
	loadingID = resource.MustParse("tablet:apps/sketchpad/loading.png")

	Paper  = color.RGBA{R: 255, G: 255, B: 250, A: 255}
	Ink    = color.RGBA{A: 255}
	Cursor = color.RGBA{R: 220, A: 255}
)

// Sketchpad keeps the dots drawn this session
type Sketchpad struct {
	*app.Base

	screen *screen.Screen
	icon   image.Image
	dots   []image.Point
	cursor image.Point
}

// New creates the sketchpad and registers it with reg
func New(reg *app.Registry, opts ...app.BaseOption) (*Sketchpad, error) {
	s := &Sketchpad{
		Base: app.NewBase(ID, text.New("app.sketchpad.name", "Sketchpad"), iconID, loadingID, opts...),
	}

	scr, err := screen.Discover(ID, s)
	if err != nil {
		return nil, err
	}
	s.screen = scr

	if err := reg.Add(s); err != nil {
		return nil, err
	}
	return s, nil
}

// InitResources loads the icon when present; the pad works without it
func (s *Sketchpad) InitResources(loader *resource.Loader) error {
	s.dots = nil
	if !loader.Exists(s.Icon()) {
		s.icon = nil
		return nil
	}
	icon, err := loader.Icon(s.Icon())
	if err != nil {
		return err
	}
	s.icon = icon
	return nil
}

// Render draws a fresh frame; prev only supplies the canvas size
func (s *Sketchpad) Render(prev *frame.Buffer, mouseX, mouseY int) *frame.Buffer {
	// HandleMouseMoved has no error result, so this post cannot fail
	if pos := image.Pt(mouseX, mouseY); pos != s.cursor {
		_ = s.screen.Post(screen.MouseMoved{X: mouseX, Y: mouseY})
	}

	out := frame.New(prev.Width, prev.Height)
	out.Fill(Paper)
	for _, d := range s.dots {
		out.FillRect(image.Rect(d.X-DotRadius, d.Y-DotRadius, d.X+DotRadius+1, d.Y+DotRadius+1), Ink)
	}
	if s.icon != nil {
		b := s.icon.Bounds()
		at := image.Pt(out.Width-b.Dx(), 0)
		draw.Draw(out.Image(), b.Sub(b.Min).Add(at), s.icon, b.Min, draw.Over)
	}
	out.Set(s.cursor.X, s.cursor.Y, Cursor)
	return out
}

func (s *Sketchpad) OnMousePressed(x, y int) error {
	return s.screen.Post(screen.MousePressed{X: x, Y: y})
}

func (s *Sketchpad) OnKeyPressed(code int) error {
	return s.screen.Post(screen.KeyPressed{Code: code})
}

// HandleMousePressed leaves a dot
func (s *Sketchpad) HandleMousePressed(e screen.MousePressed) {
	s.dots = append(s.dots, image.Pt(e.X, e.Y))
}

// HandleMouseMoved tracks the cursor
func (s *Sketchpad) HandleMouseMoved(e screen.MouseMoved) {
	s.cursor = image.Pt(e.X, e.Y)
}

// HandleKeyPressed clears the pad on KeyClear
func (s *Sketchpad) HandleKeyPressed(e screen.KeyPressed) error {
	if e.Code == KeyClear {
		s.dots = nil
	}
	return nil
}

// Dots returns a copy of the drawn dots
func (s *Sketchpad) Dots() []image.Point {
	return append([]image.Point(nil), s.dots...)
}

// Events lists the event types the sketchpad reacts to
func (s *Sketchpad) Events() []string {
	return s.screen.Events()
}
