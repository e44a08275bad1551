package runner

import (
	"context"
	"testing"
	"time"
)

func TestCompanyFloor(t *testing.T) {
	pacer := NewPacer(30 * time.Second)

	tests := []struct {
		name     string
		attempts int
		elapsed  time.Duration
		expected time.Duration
	}{
		{name: "fast company waits the full floor", attempts: 3, elapsed: 10 * time.Second, expected: 80 * time.Second},
		{name: "slow company waits nothing", attempts: 2, elapsed: 2 * time.Minute, expected: 0},
		{name: "zero attempts waits nothing", attempts: 0, elapsed: time.Second, expected: 0},
		{name: "exact floor", attempts: 1, elapsed: 30 * time.Second, expected: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := pacer.CompanyFloor(test.attempts, test.elapsed)
			if got != test.expected {
				t.Errorf("CompanyFloor(%d, %s) = %s, expected %s", test.attempts, test.elapsed, got, test.expected)
			}
		})
	}
}

func TestSleepReturnsOnCancel(t *testing.T) {
	pacer := NewPacer(30 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := pacer.Sleep(ctx, time.Minute)

	if err == nil {
		t.Fatal("expected a context error")
	}

	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Sleep took %s after cancellation", elapsed)
	}
}

func TestSleepZeroDuration(t *testing.T) {
	pacer := NewPacer(30 * time.Second)

	if err := pacer.Sleep(context.Background(), 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWaitSubmitFirstTokenIsImmediate(t *testing.T) {
	pacer := NewPacer(30 * time.Second)

	start := time.Now()
	if err := pacer.WaitSubmit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("first WaitSubmit blocked for %s", elapsed)
	}
}
