// Package transport implements a thin wrapper over a unary-unary
// RPC channel that injects a default per-call deadline into every outgoing
// call, preserving any caller-supplied deadline. Grounded on
// original_source/kachaka_core/interceptors.py's TimeoutInterceptor, which
// exists for exactly this reason: the upstream SDK never sets a default
// timeout, so a silent TCP partition can block a call indefinitely (the
// Python docstring cites 522s observed in testing).
package transport

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// Transport wraps a grpc.ClientConnInterface and injects DefaultTimeout into
// calls whose context carries no deadline of its own. It implements
// grpc.ClientConnInterface so it can be handed directly to
// kachakapb.NewClient in place of a bare *grpc.ClientConn.
type Transport struct {
	cc             grpc.ClientConnInterface
	DefaultTimeout time.Duration
}

// New wraps cc with the given default per-call timeout. A non-positive
// timeout disables injection (every call is passed through unmodified).
func New(cc grpc.ClientConnInterface, defaultTimeout time.Duration) *Transport {
	return &Transport{cc: cc, DefaultTimeout: defaultTimeout}
}

// Invoke implements grpc.ClientConnInterface. If ctx has no deadline, one is
// added DefaultTimeout in the future; an existing deadline is left
// untouched. No other call metadata is altered.
func (t *Transport) Invoke(ctx context.Context, method string, args, reply interface{}, opts ...grpc.CallOption) error {
	ctx, cancel := t.withDefaultDeadline(ctx)
	defer cancel()
	return t.cc.Invoke(ctx, method, args, reply, opts...)
}

// NewStream implements grpc.ClientConnInterface. Streaming calls are passed
// through unmodified: this module only injects unary deadlines and issues
// no streaming RPCs.
func (t *Transport) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return t.cc.NewStream(ctx, desc, method, opts...)
}

func (t *Transport) withDefaultDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || t.DefaultTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, t.DefaultTimeout)
}
