package worker

import (
	"SendBay/internal/service"
	"errors"
	"fmt"
	"testing"
	"time"
)

// TestPickRetryDelay tests the retry schedule including clamping.
func TestPickRetryDelay(t *testing.T) {
	delays := []time.Duration{10 * time.Second, time.Minute, 10 * time.Minute}

	if got := pickRetryDelay(1, delays); got != 10*time.Second {
		t.Fatalf("attempt 1: got %s", got)
	}
	if got := pickRetryDelay(3, delays); got != 10*time.Minute {
		t.Fatalf("attempt 3: got %s", got)
	}
	// attempts past the table reuse the final delay
	if got := pickRetryDelay(9, delays); got != 10*time.Minute {
		t.Fatalf("attempt 9: got %s", got)
	}
	if got := pickRetryDelay(1, nil); got != 0 {
		t.Fatalf("empty table: got %s", got)
	}
}

// TestShouldRetry tests the transient/permanent failure split.
func TestShouldRetry(t *testing.T) {
	if shouldRetry(service.ErrNotFound) {
		t.Fatal("missing shares will not heal, no retry")
	}
	if shouldRetry(fmt.Errorf("resolve: %w", service.ErrSMTPUnavailable)) {
		t.Fatal("unset smtp config will not heal, no retry")
	}
	if !shouldRetry(errors.New("dial tcp: connection refused")) {
		t.Fatal("transient smtp failure should retry")
	}
}
