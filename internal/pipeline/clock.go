package pipeline

import "github.com/jonboulle/clockwork"

// clock stamps results with their generation time so tests can freeze it via
// SetClock. Production code uses the real clock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
