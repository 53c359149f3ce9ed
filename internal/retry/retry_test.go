package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCountModeRetriesThenSucceeds(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return status.Error(codes.Unavailable, "down")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestCountModeExhaustionReportsExactAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}, func(ctx context.Context) error {
		calls++
		return status.Error(codes.Unavailable, "down")
	})
	require.Error(t, err)
	var r *Result
	require.True(t, errors.As(err, &r))
	require.True(t, r.Retryable)
	require.Equal(t, 3, r.Attempts)
	require.Equal(t, 3, calls)
}

func TestPermanentFaultReturnsImmediately(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}, func(ctx context.Context) error {
		calls++
		return status.Error(codes.InvalidArgument, "nope")
	})
	require.Error(t, err)
	var r *Result
	require.True(t, errors.As(err, &r))
	require.False(t, r.Retryable)
	require.Equal(t, 1, calls)
}

func TestNonRPCErrorIsNonRetryable(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}, func(ctx context.Context) error {
		calls++
		return errors.New("boom")
	})
	require.Error(t, err)
	var r *Result
	require.True(t, errors.As(err, &r))
	require.False(t, r.Retryable)
	require.Equal(t, 1, calls)
}

func TestDeadlineModeTerminatesWithinDeadlinePlusOneSleepQuantum(t *testing.T) {
	deadline := time.Now().Add(50 * time.Millisecond)
	start := time.Now()
	err := Do(context.Background(), Policy{BaseDelay: 20 * time.Millisecond, MaxDelay: 20 * time.Millisecond, Deadline: deadline}, func(ctx context.Context) error {
		return status.Error(codes.Unavailable, "down")
	})
	elapsed := time.Since(start)
	require.Error(t, err)
	require.Less(t, elapsed, 100*time.Millisecond)
}

func TestDeadlineModeIgnoresMaxAttempts(t *testing.T) {
	calls := 0
	deadline := time.Now().Add(80 * time.Millisecond)
	_ = Do(context.Background(), Policy{MaxAttempts: 1, BaseDelay: 10 * time.Millisecond, MaxDelay: 10 * time.Millisecond, Deadline: deadline}, func(ctx context.Context) error {
		calls++
		return status.Error(codes.Unavailable, "down")
	})
	require.Greater(t, calls, 1)
}
