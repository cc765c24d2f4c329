// Package testing provides test utilities for batchz.
package testing

import (
	"testing"
	"time"

	batchz "github.com/zoobzio/batchz"
)

// CollectResultsWithTimeout collects all results from a channel with a timeout.
// It returns early when the channel closes.
func CollectResultsWithTimeout[T any](t *testing.T, ch <-chan batchz.Result[T], timeout time.Duration) []batchz.Result[T] {
	t.Helper()

	var results []batchz.Result[T]
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case result, ok := <-ch:
			if !ok {
				return results
			}
			results = append(results, result)
		case <-timer.C:
			return results
		}
	}
}

// CollectBatches collects the successful batches of a Batcher's output.
func CollectBatches[T any](t *testing.T, ch <-chan batchz.Result[batchz.Batch[T]], timeout time.Duration) []batchz.Batch[T] {
	t.Helper()

	results := CollectResultsWithTimeout(t, ch, timeout)
	batches := make([]batchz.Batch[T], 0, len(results))
	for _, r := range results {
		if r.IsSuccess() {
			batches = append(batches, r.Value())
		}
	}
	return batches
}

// CollectPanes collects the successful panes of a Grouper's output.
func CollectPanes[K comparable, T any](t *testing.T, ch <-chan batchz.Result[batchz.Pane[K, T]], timeout time.Duration) []batchz.Pane[K, T] {
	t.Helper()

	results := CollectResultsWithTimeout(t, ch, timeout)
	panes := make([]batchz.Pane[K, T], 0, len(results))
	for _, r := range results {
		if r.IsSuccess() {
			panes = append(panes, r.Value())
		}
	}
	return panes
}

// SendValues sends a slice of values to a channel as successful Results.
// Closes the channel after all values are sent.
func SendValues[T any](t *testing.T, values []T) <-chan batchz.Result[T] {
	t.Helper()

	ch := make(chan batchz.Result[T], len(values))
	for _, v := range values {
		ch <- batchz.NewSuccess(v)
	}
	close(ch)
	return ch
}

// Flatten concatenates the values of batches in emission order.
func Flatten[T any](batches []batchz.Batch[T]) []T {
	var out []T
	for _, b := range batches {
		out = append(out, b.Values()...)
	}
	return out
}

// AssertResultCount verifies the expected number of results were received.
func AssertResultCount[T any](t *testing.T, results []batchz.Result[T], expected int) {
	t.Helper()

	if len(results) != expected {
		t.Errorf("expected %d results, got %d", expected, len(results))
	}
}

// AssertBatchSizes verifies the size of each batch in order.
func AssertBatchSizes[T any](t *testing.T, batches []batchz.Batch[T], sizes ...int) {
	t.Helper()

	if len(batches) != len(sizes) {
		t.Fatalf("expected %d batches, got %d", len(sizes), len(batches))
	}
	for i, b := range batches {
		if b.Len() != sizes[i] {
			t.Errorf("batch %d: expected size %d, got %d", i, sizes[i], b.Len())
		}
	}
}

// AssertTerminalError verifies that only the last result is an error.
func AssertTerminalError[T any](t *testing.T, results []batchz.Result[T]) {
	t.Helper()

	if len(results) == 0 {
		t.Fatal("expected a terminal error, got no results")
	}
	for i, r := range results[:len(results)-1] {
		if r.IsError() {
			t.Errorf("result %d: unexpected error before the end: %v", i, r.Error())
		}
	}
	if last := results[len(results)-1]; last.IsSuccess() {
		t.Error("expected last result to be an error")
	}
}
