package demo

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/zoobzio/batchz"
)

// Interval returns a source producing gen(1), gen(2), ... gen(count), one
// value every period, timed on clock.
func Interval[T any](clock batchz.Clock, period time.Duration, count int, gen func(i int) T) batchz.Source[T] {
	i := 0
	return batchz.SourceFunc[T](func(ctx context.Context) (T, error) {
		var zero T
		if i >= count {
			return zero, io.EOF
		}
		timer := clock.NewTimer(period)
		defer timer.Stop()
		select {
		case <-timer.C():
		case <-ctx.Done():
			return zero, ctx.Err()
		}
		i++
		return gen(i), nil
	})
}

// EventName formats the i-th tutorial event.
func EventName(i int) string {
	return "event-" + strconv.Itoa(i)
}
