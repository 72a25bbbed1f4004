package housekeeping

import (
	"context"
	"testing"
	"time"

	"github.com/leco-dev/coordinator/pkg/directory"
)

func TestFireIfDueRunsOnMatchingExpression(t *testing.T) {
	s := New("* * * * *", directory.New())
	// Should not panic or error for a valid, always-due expression.
	s.fireIfDue(time.Now())
}

func TestFireIfDueLogsAndSkipsInvalidExpression(t *testing.T) {
	s := New("not-a-cron-expression", directory.New())
	s.fireIfDue(time.Now())
}

func TestRunStopsWhenContextIsCancelled(t *testing.T) {
	s := New("* * * * *", directory.New(), WithPollInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected Run to return the cancellation error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
