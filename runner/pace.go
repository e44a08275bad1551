package runner

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// minSubmitInterval spaces consecutive search submissions even within one
// company.
const minSubmitInterval = 2 * time.Second

// Pacer throttles the crawl on two levels: a token-bucket limiter ahead of
// every search submission and a per-company floor, sized as attempts ×
// per-attempt minimum minus the time already spent.
type Pacer struct {
	limiter    *rate.Limiter
	perAttempt time.Duration
}

func NewPacer(perAttempt time.Duration) *Pacer {
	return &Pacer{
		limiter:    rate.NewLimiter(rate.Every(minSubmitInterval), 1),
		perAttempt: perAttempt,
	}
}

// WaitSubmit blocks until the next search submission is allowed.
func (p *Pacer) WaitSubmit(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// CompanyFloor returns how much longer to wait after a company that used
// the given number of attempts and took elapsed to process, floored at
// zero.
func (p *Pacer) CompanyFloor(attempts int, elapsed time.Duration) time.Duration {
	floor := time.Duration(attempts)*p.perAttempt - elapsed
	if floor < 0 {
		floor = 0
	}

	return floor
}

// Sleep waits out the given duration with a live countdown line, returning
// early when the context is cancelled.
func (p *Pacer) Sleep(ctx context.Context, d time.Duration) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	deadline := time.Now().Add(d)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			Status("")
			return nil
		}

		Status(fmt.Sprintf("waiting.... %ds", int(remaining.Round(time.Second).Seconds())))

		select {
		case <-ctx.Done():
			Status("")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// statusWidth is the width of the terminal line Status blanks before
// rewriting.
const statusWidth = 98

// Status rewrites the current terminal line in place.
func Status(msg string) {
	fmt.Fprintf(os.Stdout, "\r%s\r%s", strings.Repeat(" ", statusWidth), msg)
}
