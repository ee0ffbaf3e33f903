package sketchpad

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/TabletOS/backend/internal/domain/app"
	"github.com/GriffinCanCode/TabletOS/backend/internal/domain/screen"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/frame"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/resource"
)

func newPad(t *testing.T) *Sketchpad {
	t.Helper()
	s, err := New(app.NewRegistry())
	require.NoError(t, err)
	return s
}

func TestNewDiscoversHandlers(t *testing.T) {
	s := newPad(t)

	events := s.Events()
	assert.Len(t, events, 3)
	assert.Contains(t, events, "screen.MousePressed")
	assert.Contains(t, events, "screen.MouseMoved")
	assert.Contains(t, events, "screen.KeyPressed")
}

func TestNewDuplicate(t *testing.T) {
	reg := app.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.ErrorIs(t, err, app.ErrDuplicateID)
}

func TestInitResources(t *testing.T) {
	s := newPad(t)

	t.Run("icon is optional", func(t *testing.T) {
		assert.NoError(t, s.InitResources(resource.NewLoader(fstest.MapFS{})))
	})

	t.Run("broken icon fails", func(t *testing.T) {
		fsys := fstest.MapFS{"tablet/apps/sketchpad/icon.png": {Data: []byte("not a png")}}
		err := s.InitResources(resource.NewLoader(fsys))
		assert.ErrorIs(t, err, resource.ErrNotImage)
	})

	t.Run("icon drawn top right", func(t *testing.T) {
		var buf bytes.Buffer
		icon := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for i := range icon.Pix {
			icon.Pix[i] = 0xff
		}
		require.NoError(t, png.Encode(&buf, icon))
		fsys := fstest.MapFS{"tablet/apps/sketchpad/icon.png": {Data: buf.Bytes()}}
		require.NoError(t, s.InitResources(resource.NewLoader(fsys)))

		out := s.Render(frame.New(20, 20), 0, 0)
		assert.Equal(t, uint8(0xff), out.At(19, 0).B)
		assert.Equal(t, Paper, out.At(15, 0))
	})
}

func TestDrawAndClear(t *testing.T) {
	s := newPad(t)

	require.NoError(t, s.OnMousePressed(5, 5))
	require.NoError(t, s.OnMousePressed(10, 3))
	assert.Equal(t, []image.Point{{5, 5}, {10, 3}}, s.Dots())

	out := s.Render(frame.New(20, 20), 0, 0)
	assert.Equal(t, Ink, out.At(5, 5))
	assert.Equal(t, Ink, out.At(7, 7))
	assert.Equal(t, Paper, out.At(8, 8))

	require.NoError(t, s.OnKeyPressed('x'))
	assert.Len(t, s.Dots(), 2)

	require.NoError(t, s.OnKeyPressed(KeyClear))
	assert.Empty(t, s.Dots())
}

func TestCursorFollowsMouse(t *testing.T) {
	s := newPad(t)

	out := s.Render(frame.New(20, 20), 12, 9)
	assert.Equal(t, Cursor, out.At(12, 9))

	out = s.Render(out, 1, 1)
	assert.Equal(t, Cursor, out.At(1, 1))
	assert.Equal(t, Paper, out.At(12, 9))
}

func TestRenderPostsCannotFail(t *testing.T) {
	s := newPad(t)

	assert.NoError(t, s.screen.Post(screen.MouseMoved{X: 3, Y: 4}))
	assert.Equal(t, image.Pt(3, 4), s.cursor)
}

func TestRenderLeavesPrevUntouched(t *testing.T) {
	s := newPad(t)
	require.NoError(t, s.InitResources(resource.NewLoader(fstest.MapFS{})))
	require.NoError(t, s.OnMousePressed(5, 5))

	prev := frame.New(16, 16)
	before := prev.Clone()
	out := s.Render(prev, 2, 2)

	assert.NotSame(t, prev, out)
	assert.Equal(t, before.Pix, prev.Pix)
	assert.Equal(t, Ink, out.At(5, 5))
}
