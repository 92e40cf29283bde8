package contextx

import (
	"context"
	"fmt"

	"github.com/rs/xid"
)

type TraceID string

type contextKeyTraceID struct{}

// NewTraceID returns a fresh, sortable trace id.
func NewTraceID() TraceID {
	return TraceID(xid.New().String())
}

func (t TraceID) String() string {
	return string(t)
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	traceID, ok := ctx.Value(contextKeyTraceID{}).(TraceID)
	if !ok {
		return "", fmt.Errorf("trace id: %w", ErrNoValue)
	}

	return traceID, nil
}

// EnsureTraceID keeps the trace id already in ctx or attaches a new one.
// The bool reports whether the id was created here.
func EnsureTraceID(ctx context.Context) (context.Context, TraceID, bool) {
	if traceID, err := TraceIDFromContext(ctx); err == nil {
		return ctx, traceID, false
	}

	traceID := NewTraceID()

	return WithTraceID(ctx, traceID), traceID, true
}
