/*
Package resilience provides a circuit breaker for guarding calls into code
that may keep failing.

The tablet device keeps one breaker per application around its render call.
Once an application fails often enough the breaker opens: the device closes
the application and refuses to open it again until the timeout has passed.
After the timeout a single trial run decides whether the breaker closes.

# Usage

	breaker := resilience.New("clock", resilience.Settings{
		Timeout:     30 * time.Second,
		ReadyToTrip: resilience.ConsecutiveFailures(3),
		Clock:       clk,
	})

	done, err := breaker.Allow()
	if err != nil {
		return err // open or half-open and busy
	}
	out := render()
	done(out != nil)

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
