package batchz

import "github.com/zoobzio/clockz"

// Clock provides time operations for deterministic testing.
type Clock = clockz.Clock

// Timer represents a single event timer.
type Timer = clockz.Timer

// RealClock is the default Clock using standard time.
var RealClock Clock = clockz.RealClock

// stopTimer stops t and drains a tick that fired before Stop took effect,
// so a later timer on the same select cannot observe it.
func stopTimer(t Timer) {
	if t == nil {
		return
	}
	if !t.Stop() {
		select {
		case <-t.C():
		default:
		}
	}
}
