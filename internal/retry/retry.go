// Package retry implements a decorator over any RPC call that
// retries transient faults with exponential backoff, bounded by either a
// maximum attempt count or an absolute wall-clock deadline, and refuses to
// retry permanent faults. Grounded on
// original_source/kachaka_core/error_handling.py's with_retry decorator,
// with the backoff-table idiom borrowed from
// go/shuffle/read.go:backoff and the gRPC status mapping from
// go/protocols/flow/re_exports.go:UnwrapGRPCError.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/estuary/kachaka-core/internal/ops"
)

var log = ops.For("retry")

// Policy configures a retry loop. Deadline, when non-zero, switches the
// loop into deadline mode: MaxAttempts is then ignored and the
// loop runs until the wall clock passes Deadline.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Deadline    time.Time // zero value means count mode
}

// DefaultPolicy returns the default backoff configuration.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second}
}

// WithDeadline returns a copy of p in deadline mode.
func (p Policy) WithDeadline(d time.Time) Policy {
	p.Deadline = d
	return p
}

// Result is the outcome of an exhausted or permanently-failed retry loop.
// A nil error from Do means the call succeeded; Result is only populated on
// failure, in an {ok:false, retryable, attempts} shape.
type Result struct {
	Retryable bool
	Attempts  int
	Err       error
}

func (r *Result) Error() string { return r.Err.Error() }

// retryableCodes is the retryable fault set.
var retryableCodes = map[codes.Code]bool{
	codes.Unavailable:       true,
	codes.DeadlineExceeded:  true,
	codes.ResourceExhausted: true,
}

// Do invokes fn under policy, retrying transient gRPC faults with
// exponential backoff. On success it returns nil. On a permanent fault it
// returns immediately, wrapped in *Result{Retryable:false}. On exhaustion of
// a retryable fault it returns *Result{Retryable:true, Attempts:N}.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	var lastErr error
	attempt := 0

	deadlineMode := !policy.Deadline.IsZero()

	for {
		if deadlineMode && time.Now().After(policy.Deadline) {
			break
		}
		attempt++

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			log.WithField("error", err).Warn("non-retryable RPC fault")
			return &Result{Retryable: false, Attempts: attempt, Err: err}
		}

		if !deadlineMode && attempt >= policy.MaxAttempts {
			break
		}

		delay := backoffDelay(policy, attempt)
		if deadlineMode {
			remaining := time.Until(policy.Deadline)
			if remaining <= 0 {
				break
			}
			if delay > remaining {
				delay = remaining
			}
		}
		log.WithFields(map[string]interface{}{"attempt": attempt, "delay": delay}).Info("retrying transient RPC fault")

		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return &Result{Retryable: true, Attempts: attempt, Err: ctx.Err()}
		}
	}

	return &Result{Retryable: true, Attempts: attempt, Err: lastErr}
}

func backoffDelay(p Policy, attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// isRetryable classifies err: gRPC Unavailable,
// DeadlineExceeded, and ResourceExhausted are transient; every other gRPC
// status and every non-RPC error is treated as permanent.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	return retryableCodes[st.Code()]
}

// Describe renders err as a "CODE: details" permanent-failure string.
func Describe(err error) string {
	var r *Result
	if errors.As(err, &r) && r.Err != nil {
		err = r.Err
	}
	if st, ok := status.FromError(err); ok {
		return fmt.Sprintf("%s: %s", st.Code(), st.Message())
	}
	return err.Error()
}
