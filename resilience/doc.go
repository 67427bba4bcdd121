// Package resilience holds the bounded waiting primitives used around the
// inference container: Poll for readiness checks with a fixed interval and
// ceiling, and Retry with exponential backoff for transient failures.
//
//	err := resilience.Poll(ctx, resilience.PollConfig{Interval: time.Second, Timeout: time.Minute},
//	    func(ctx context.Context) bool { return client.IsAvailable(ctx) })
//	if errors.Is(err, resilience.ErrPollTimeout) {
//	    // ...
//	}
package resilience
