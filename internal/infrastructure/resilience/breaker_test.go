package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFailed = errors.New("failed")

func fail() error    { return errFailed }
func succeed() error { return nil }

func newBreaker(clk clock.Clock, trip uint32, transitions *[]string) *Breaker {
	return New("test", Settings{
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: ConsecutiveFailures(trip),
		Clock:       clk,
		OnStateChange: func(name string, from State, to State) {
			if transitions != nil {
				*transitions = append(*transitions, from.String()+"->"+to.String())
			}
		},
	})
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		requests      []bool // true = success, false = failure
		expectedState State
	}{
		{"stays closed on successes", []bool{true, true, true}, StateClosed},
		{"opens after consecutive failures", []bool{false, false, false}, StateOpen},
		{"success resets the streak", []bool{false, false, true, false, false}, StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker := newBreaker(clock.NewMock(), 3, nil)

			for _, success := range tt.requests {
				fn := fail
				if success {
					fn = succeed
				}
				_ = breaker.Execute(fn)
			}

			assert.Equal(t, tt.expectedState, breaker.State())
		})
	}
}

func TestBreakerCounts(t *testing.T) {
	breaker := newBreaker(clock.NewMock(), 5, nil)

	require.NoError(t, breaker.Execute(succeed))

	counts := breaker.Counts()
	assert.Equal(t, uint32(1), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalSuccesses)
	assert.Equal(t, uint32(1), counts.ConsecutiveSuccesses)
	assert.Equal(t, uint32(0), counts.TotalFailures)

	assert.ErrorIs(t, breaker.Execute(fail), errFailed)

	counts = breaker.Counts()
	assert.Equal(t, uint32(2), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalFailures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
	assert.Equal(t, uint32(0), counts.ConsecutiveSuccesses)
}

func TestBreakerOpenRefusesCalls(t *testing.T) {
	breaker := newBreaker(clock.NewMock(), 2, nil)
	_ = breaker.Execute(fail)
	_ = breaker.Execute(fail)
	require.Equal(t, StateOpen, breaker.State())

	called := false
	err := breaker.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpen(t *testing.T) {
	mock := clock.NewMock()
	var transitions []string
	breaker := newBreaker(mock, 2, &transitions)

	_ = breaker.Execute(fail)
	_ = breaker.Execute(fail)
	require.Equal(t, StateOpen, breaker.State())

	mock.Add(59 * time.Second)
	assert.Equal(t, StateOpen, breaker.State())

	mock.Add(2 * time.Second)
	require.Equal(t, StateHalfOpen, breaker.State())

	t.Run("one trial at a time", func(t *testing.T) {
		done, err := breaker.Allow()
		require.NoError(t, err)

		_, err = breaker.Allow()
		assert.ErrorIs(t, err, ErrTooManyRequests)

		done(true)
		assert.Equal(t, StateClosed, breaker.State())
	})

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	mock := clock.NewMock()
	breaker := newBreaker(mock, 1, nil)

	_ = breaker.Execute(fail)
	mock.Add(2 * time.Minute)
	require.Equal(t, StateHalfOpen, breaker.State())

	_ = breaker.Execute(fail)
	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerStaleResultIgnored(t *testing.T) {
	breaker := newBreaker(clock.NewMock(), 1, nil)

	done, err := breaker.Allow()
	require.NoError(t, err)

	breaker.Reset()
	_ = breaker.Execute(succeed)
	done(false)

	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerInterval(t *testing.T) {
	mock := clock.NewMock()
	breaker := New("test", Settings{
		Interval:    time.Minute,
		ReadyToTrip: ConsecutiveFailures(2),
		Clock:       mock,
	})

	_ = breaker.Execute(fail)
	mock.Add(2 * time.Minute)
	_ = breaker.Execute(fail)

	assert.Equal(t, StateClosed, breaker.State(), "counts clear after the interval")
	assert.Equal(t, uint32(1), breaker.Counts().ConsecutiveFailures)
}

func TestBreakerExecutePanics(t *testing.T) {
	breaker := newBreaker(clock.NewMock(), 1, nil)

	assert.Panics(t, func() {
		_ = breaker.Execute(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, breaker.State())
}

func TestReset(t *testing.T) {
	breaker := newBreaker(clock.NewMock(), 1, nil)
	_ = breaker.Execute(fail)
	require.Equal(t, StateOpen, breaker.State())

	breaker.Reset()
	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, Counts{}, breaker.Counts())
}
