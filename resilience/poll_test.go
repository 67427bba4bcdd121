package resilience

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoll_ImmediateSuccess(t *testing.T) {
	var calls atomic.Int32
	err := Poll(context.Background(), PollConfig{Interval: time.Hour, Timeout: time.Hour}, func(context.Context) bool {
		calls.Add(1)
		return true
	})

	assert.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPoll_SucceedsAfterSeveralChecks(t *testing.T) {
	var calls atomic.Int32
	err := Poll(context.Background(), PollConfig{Interval: 5 * time.Millisecond, Timeout: time.Second}, func(context.Context) bool {
		return calls.Add(1) >= 3
	})

	assert.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPoll_Timeout(t *testing.T) {
	start := time.Now()
	err := Poll(context.Background(), PollConfig{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond}, func(context.Context) bool {
		return false
	})

	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPoll_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Poll(ctx, PollConfig{Interval: 5 * time.Millisecond, Timeout: time.Hour}, func(context.Context) bool {
		return false
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
