package app

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/TabletOS/backend/internal/infrastructure/monitoring"
)

func activeCount(r *Registry) int {
	n := 0
	for _, a := range r.List() {
		if r.IsActive(a.ID()) {
			n++
		}
	}
	return n
}

func TestAdd(t *testing.T) {
	r := NewRegistry()
	a := newStub("clock", clock.NewMock())

	require.NoError(t, r.Add(a))

	got, ok := r.Get("clock")
	require.True(t, ok)
	assert.Same(t, a, got)
	assert.Equal(t, 1, r.Len())
	assert.False(t, r.IsActive("clock"))
}

func TestAddDuplicate(t *testing.T) {
	r := NewRegistry()
	first := newStub("clock", clock.NewMock())
	second := newStub("clock", clock.NewMock())

	require.NoError(t, r.Add(first))
	err := r.Add(second)

	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, r.Len())

	got, _ := r.Get("clock")
	assert.Same(t, first, got, "first registration must be kept")
}

func TestAddInvalidID(t *testing.T) {
	r := NewRegistry()

	for _, id := range []string{"", "has space", "dots.not.allowed", string(make([]byte, MaxIDLength+1))} {
		err := r.Add(newStub(id, clock.NewMock()))
		assert.ErrorIs(t, err, ErrInvalidID, "id %q", id)
	}
	assert.ErrorIs(t, r.Add(nil), ErrInvalidID)
	assert.Equal(t, 0, r.Len())
}

func TestActivate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(newStub("clock", clock.NewMock())))
	require.NoError(t, r.Add(newStub("sketchpad", clock.NewMock())))

	require.NoError(t, r.Activate("clock"))
	active, ok := r.Active()
	require.True(t, ok)
	assert.Equal(t, "clock", active.ID())

	// Activating another app moves clock out of the active slot
	require.NoError(t, r.Activate("sketchpad"))
	assert.False(t, r.IsActive("clock"))
	assert.True(t, r.IsActive("sketchpad"))
	assert.Equal(t, 1, activeCount(r))
}

func TestActivateResetsUptime(t *testing.T) {
	mock := clock.NewMock()
	r := NewRegistry()
	a := newStub("clock", mock)
	require.NoError(t, r.Add(a))

	mock.Add(90 * time.Second)
	assert.Equal(t, 90, a.UpTimeSeconds())

	require.NoError(t, r.Activate("clock"))
	assert.Equal(t, 0, a.UpTimeSeconds())
	assert.Equal(t, time.Duration(0), a.UpTime())

	// Re-opening the active app starts it fresh again
	mock.Add(5 * time.Second)
	require.NoError(t, r.Activate("clock"))
	assert.Equal(t, 0, a.UpTimeSeconds())
}

func TestActivateNotFound(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(newStub("clock", clock.NewMock())))
	require.NoError(t, r.Activate("clock"))

	err := r.Activate("missing")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, r.IsActive("clock"), "active app must be unchanged")
}

func TestDeactivate(t *testing.T) {
	r := NewRegistry()

	// No-op with nothing active
	r.Deactivate()
	_, ok := r.Active()
	assert.False(t, ok)

	require.NoError(t, r.Add(newStub("clock", clock.NewMock())))
	require.NoError(t, r.Activate("clock"))
	r.Deactivate()

	_, ok = r.Active()
	assert.False(t, ok)
	assert.False(t, r.IsActive("clock"))
	assert.Equal(t, 1, r.Len(), "deactivation does not unregister")
}

func TestAtMostOneActive(t *testing.T) {
	r := NewRegistry()
	ids := []string{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		require.NoError(t, r.Add(newStub(id, clock.NewMock())))
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			r.Deactivate()
		case 1:
			_ = r.Activate("unknown")
		default:
			require.NoError(t, r.Activate(ids[rng.Intn(len(ids))]))
		}
		assert.LessOrEqual(t, activeCount(r), 1, "step %d", i)
	}
}

func TestConcurrentActivation(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 8; i++ {
		require.NoError(t, r.Add(newStub(fmt.Sprintf("app-%d", i), clock.NewMock())))
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.Activate(fmt.Sprintf("app-%d", (i+j)%8))
				if j%10 == 0 {
					r.Deactivate()
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, r.Stats().ActiveApps, 1)
	assert.LessOrEqual(t, activeCount(r), 1)
}

func TestListSorted(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Add(newStub(id, clock.NewMock())))
	}

	var got []string
	for _, a := range r.List() {
		got = append(got, a.ID())
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, got)
}

func TestStatsAndClear(t *testing.T) {
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	r := NewRegistry().WithMetrics(metrics)
	require.NoError(t, r.Add(newStub("clock", clock.NewMock())))
	require.NoError(t, r.Add(newStub("sketchpad", clock.NewMock())))
	require.NoError(t, r.Activate("sketchpad"))

	stats := r.Stats()
	assert.Equal(t, 2, stats.TotalApps)
	assert.Equal(t, 1, stats.ActiveApps)
	require.NotNil(t, stats.ActiveAppID)
	assert.Equal(t, "sketchpad", *stats.ActiveAppID)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.AppsRegistered))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AppsActive))

	r.Clear()

	assert.Equal(t, 0, r.Len())
	_, ok := r.Active()
	assert.False(t, ok)
	assert.Nil(t, r.Stats().ActiveAppID)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.AppsRegistered))
}

func TestDefaultRegistrySingleton(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}
