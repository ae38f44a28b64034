package scheduler

import (
	"context"
	"time"
)

// Clock abstracts wall time so tests can drive many rounds without real
// delays.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done; returns false on cancellation.
	Sleep(ctx context.Context, d time.Duration) bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
