package app

import (
	"github.com/benbjohnson/clock"

	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/frame"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/resource"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/text"
)

type stubApp struct {
	*Base
}

func (s *stubApp) InitResources(loader *resource.Loader) error { return nil }

func (s *stubApp) Render(prev *frame.Buffer, mouseX, mouseY int) *frame.Buffer { return prev }

func newStub(id string, clk clock.Clock) *stubApp {
	return &stubApp{
		Base: NewBase(id,
			text.New("app."+id+".name", id),
			resource.MustParse("test:icon.png"),
			resource.MustParse("test:loading.png"),
			WithClock(clk),
		),
	}
}
