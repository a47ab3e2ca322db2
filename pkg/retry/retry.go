package retry

import (
	"context"
	"fmt"
	"time"
)

// DelayFunc maps the 1-based index of a finished attempt to the pause before the next one
type DelayFunc func(attempt int) time.Duration

// Linear grows the pause by one unit per finished attempt: unit, 2*unit, ...
func Linear(unit time.Duration) DelayFunc {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * unit
	}
}

// SleepFunc pauses for d or returns early when ctx is done
type SleepFunc func(ctx context.Context, d time.Duration)

// Policy is a bounded retry loop with a pluggable delay curve.
//
// Sleep is swappable so tests can run against a fake clock
type Policy struct {
	Attempts int
	Delay    DelayFunc
	Sleep    SleepFunc
}

// Do runs op up to Attempts times, pausing Delay(attempt) between tries.
// It returns nil on the first success, otherwise the last error wrapped
// with the number of attempts spent
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = defaultSleep
	}

	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt < p.Attempts && p.Delay != nil {
			sleep(ctx, p.Delay(attempt))
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", p.Attempts, lastErr)
}

func defaultSleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
