package app

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Uptime measures elapsed time since the last reset
type Uptime struct {
	mu    sync.Mutex
	clock clock.Clock
	start time.Time
}

// NewUptime starts an uptime clock. A nil clk uses the wall clock.
func NewUptime(clk clock.Clock) *Uptime {
	if clk == nil {
		clk = clock.New()
	}
	return &Uptime{clock: clk, start: clk.Now()}
}

// Elapsed returns the time since the last reset
func (u *Uptime) Elapsed() time.Duration {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.clock.Since(u.start)
}

// Seconds returns the elapsed time in whole seconds
func (u *Uptime) Seconds() int {
	return int(u.Elapsed() / time.Second)
}

// Reset restarts the clock at zero
func (u *Uptime) Reset() {
	u.mu.Lock()
	u.start = u.clock.Now()
	u.mu.Unlock()
}
