package resilience

import (
	"context"
	"errors"
	"time"
)

// ErrPollTimeout is returned by Poll when the condition never held within the timeout.
var ErrPollTimeout = errors.New("poll timed out")

// PollConfig bounds a polling loop.
type PollConfig struct {
	// Interval is the pause between checks.
	Interval time.Duration
	// Timeout is the overall ceiling measured from the first check.
	Timeout time.Duration
}

// Poll evaluates cond immediately and then once per Interval until it
// reports true. It returns ErrPollTimeout once Timeout has elapsed, or the
// context error if ctx ends first. cond receives ctx and should bound its
// own work.
func Poll(ctx context.Context, cfg PollConfig, cond func(ctx context.Context) bool) error {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	deadline := time.Now().Add(cfg.Timeout)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cond(ctx) {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrPollTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
