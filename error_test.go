package batchz

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	err := BatchConfig{MaxCount: -1, MaxDuration: time.Second}.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "MaxCount") {
		t.Errorf("expected field in message, got %q", err.Error())
	}
	if !errors.Is(ErrNilKeyFunc, ErrInvalidConfig) {
		t.Error("expected ErrNilKeyFunc to be a configuration error")
	}
}

func TestBatchConfig_Validate(t *testing.T) {
	valid := []BatchConfig{
		{},
		{MaxCount: 1},
		{MaxCount: 3, MaxDuration: time.Second},
		{MaxDuration: time.Second},
		{MaxCount: math.MaxInt},
	}
	for _, c := range valid {
		if err := c.Validate(); err != nil {
			t.Errorf("%+v: unexpected error: %v", c, err)
		}
	}

	invalid := []BatchConfig{
		{MaxCount: -1},
		{MaxDuration: -time.Second},
	}
	for _, c := range invalid {
		if err := c.Validate(); err == nil {
			t.Errorf("%+v: expected error", c)
		}
	}
}

func TestStreamError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStreamError(&UpstreamError{Err: cause}, "batcher")

	if !errors.Is(err, cause) {
		t.Error("expected cause in chain")
	}
	if !strings.Contains(err.Error(), "StreamError[batcher]") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !strings.Contains(err.Error(), "upstream: disk full") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestResult(t *testing.T) {
	ok := NewSuccess(42)
	if v, err := ok.Unpack(); v != 42 || err != nil {
		t.Errorf("unexpected unpack: %v, %v", v, err)
	}

	failed := NewError[int](errors.New("boom"), "test")
	if failed.ValueOr(7) != 7 {
		t.Error("expected fallback value")
	}
	if _, err := failed.Unpack(); err == nil {
		t.Error("expected error")
	}

	// Existing stream errors are not wrapped twice.
	again := NewError[string](failed.Error(), "other")
	if again.Error() != failed.Error() {
		t.Error("expected the same StreamError")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected Value to panic on error result")
		}
	}()
	_ = failed.Value()
}
