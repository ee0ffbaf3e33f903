// Package screen provides the dispatching object applications build their
// UI on. A Screen owns a dispatch table that is complete before the screen
// is returned to the caller, and forwards every posted event to it.
package screen

import (
	"fmt"

	"github.com/GriffinCanCode/TabletOS/backend/internal/domain/dispatch"
)

// Screen routes events to the handlers it was built with
type Screen struct {
	name  string
	table *dispatch.Table
}

// New builds a screen from explicitly registered handlers
func New(name string, b *dispatch.Builder) (*Screen, error) {
	table, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("screen %s: %w", name, err)
	}
	return &Screen{name: name, table: table}, nil
}

// Discover builds a screen from owner's Handle* methods
func Discover(name string, owner any) (*Screen, error) {
	return New(name, dispatch.NewBuilder().Scan(owner))
}

// Name returns the screen name
func (s *Screen) Name() string {
	return s.name
}

// Post forwards e to its handler; unhandled events are ignored
func (s *Screen) Post(e dispatch.Event) error {
	return s.table.Post(e)
}

// Accepts reports whether the screen reacts to e
func (s *Screen) Accepts(e dispatch.Event) bool {
	return s.table.Accepts(e)
}

// Events lists the event types the screen handles
func (s *Screen) Events() []string {
	return s.table.Types()
}
