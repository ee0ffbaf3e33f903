// Package frame provides the frame buffer applications return from Render.
//
// A Buffer is a fixed-size RGBA pixel grid. FromImage converts any
// image.Image into a Buffer so applications can draw with the standard
// image packages and hand the result to the device.
package frame

import (
	"image"
	"image/color"
	"image/draw"
)

// BytesPerPixel is the stride of one pixel in Pix
const BytesPerPixel = 4

// Buffer is an RGBA frame. Pix holds rows top to bottom, 4 bytes per pixel.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

// New creates a transparent buffer of the given size
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*BytesPerPixel),
	}
}

// FromImage converts img into a buffer the size of its bounds
func FromImage(img image.Image) *Buffer {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	return &Buffer{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    rgba.Pix,
	}
}

// Image returns an image view sharing the buffer's pixels
func (f *Buffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * BytesPerPixel,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Clone returns a deep copy
func (f *Buffer) Clone() *Buffer {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return &Buffer{Width: f.Width, Height: f.Height, Pix: pix}
}

// In reports whether (x, y) lies inside the buffer
func (f *Buffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Width && y < f.Height
}

// At returns the pixel at (x, y), or transparent black outside the buffer
func (f *Buffer) At(x, y int) color.RGBA {
	if !f.In(x, y) {
		return color.RGBA{}
	}
	i := f.offset(x, y)
	return color.RGBA{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2], A: f.Pix[i+3]}
}

// Set writes a pixel; writes outside the buffer are ignored
func (f *Buffer) Set(x, y int, c color.RGBA) {
	if !f.In(x, y) {
		return
	}
	i := f.offset(x, y)
	f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = c.R, c.G, c.B, c.A
}

// Fill paints the whole buffer with c
func (f *Buffer) Fill(c color.RGBA) {
	f.FillRect(image.Rect(0, 0, f.Width, f.Height), c)
}

// FillRect paints r, clipped to the buffer, with c
func (f *Buffer) FillRect(r image.Rectangle, c color.RGBA) {
	r = r.Intersect(image.Rect(0, 0, f.Width, f.Height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := f.offset(x, y)
			f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
}

func (f *Buffer) offset(x, y int) int {
	return (y*f.Width + x) * BytesPerPixel
}
