package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

type recordingConn struct {
	grpc.ClientConnInterface
	sawDeadline bool
	deadline    time.Time
}

func (r *recordingConn) Invoke(ctx context.Context, method string, args, reply interface{}, opts ...grpc.CallOption) error {
	r.deadline, r.sawDeadline = ctx.Deadline()
	return nil
}

func TestInjectsDefaultDeadlineWhenCallerHasNone(t *testing.T) {
	rc := &recordingConn{}
	tr := New(rc, 5*time.Second)

	before := time.Now()
	require.NoError(t, tr.Invoke(context.Background(), "/x/Y", nil, nil))
	require.True(t, rc.sawDeadline)
	require.WithinDuration(t, before.Add(5*time.Second), rc.deadline, time.Second)
}

func TestPreservesCallerSuppliedDeadline(t *testing.T) {
	rc := &recordingConn{}
	tr := New(rc, 5*time.Second)

	want := time.Now().Add(1 * time.Minute)
	ctx, cancel := context.WithDeadline(context.Background(), want)
	defer cancel()

	require.NoError(t, tr.Invoke(ctx, "/x/Y", nil, nil))
	require.True(t, rc.sawDeadline)
	require.WithinDuration(t, want, rc.deadline, time.Millisecond)
}

func TestZeroDefaultTimeoutDisablesInjection(t *testing.T) {
	rc := &recordingConn{}
	tr := New(rc, 0)

	require.NoError(t, tr.Invoke(context.Background(), "/x/Y", nil, nil))
	require.False(t, rc.sawDeadline)
}
