package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	s := startSpinner(context.Background(), "Testing...")
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := startSpinner(context.Background(), "Testing idempotent stop...")

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := startSpinner(ctx, "Testing with context...")

	cancel()

	// The animation goroutine exits on cancellation; Stop after that must
	// still return promptly without blocking.
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked after context cancellation")
	}
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := startSpinner(context.Background(), "Testing success...")
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Done!")
}

func TestSpinnerStopWithError(t *testing.T) {
	s := startSpinner(context.Background(), "Testing error...")
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Failed!")
}
