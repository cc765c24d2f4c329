package batchz

import (
	"time"

	"github.com/zoobzio/clockz"
)

// steppedClock reports every Now call on reads. Processors read the clock
// last when accepting an event, so a receive from reads means the event has
// been stamped and any timer it needed exists.
type steppedClock struct {
	*clockz.FakeClock
	reads chan time.Time
}

func newSteppedClock() *steppedClock {
	return &steppedClock{
		FakeClock: clockz.NewFakeClockAt(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
		reads:     make(chan time.Time),
	}
}

func (c *steppedClock) Now() time.Time {
	now := c.FakeClock.Now()
	c.reads <- now
	return now
}

// send delivers v to in and waits until the processor has stamped it.
func (c *steppedClock) send(in chan<- Result[int], v int) time.Time {
	in <- NewSuccess(v)
	return <-c.reads
}
