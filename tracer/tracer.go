package tracer

import (
	"context"
	"sync"

	"github.com/golangid/gqlsubscription/candishared"
)

var (
	once         sync.Once
	activeTracer PlatformType = &noopTracer{}
)

// Tracer for trace
type Tracer interface {
	Context() context.Context
	SetTag(key string, value interface{})
	InjectRequestHeader(header map[string]string)
	SetError(err error)
	Log(key string, value interface{})
	Finish(opts ...FinishOptionFunc)
}

// PlatformType define tracing platform. example using jaeger, sentry, aws x-ray, etc
type PlatformType interface {
	StartSpan(ctx context.Context, opName string) Tracer
	StartRootSpan(ctx context.Context, operationName string, header map[string]string) Tracer
}

// SetTracerPlatformType function for set tracer platform
func SetTracerPlatformType(t PlatformType) {
	once.Do(func() { activeTracer = t })
}

// StartTrace starting trace child span from parent span
func StartTrace(ctx context.Context, operationName string) Tracer {
	if candishared.GetValueFromContext(ctx, skipTracer) != nil {
		return &noopTracer{ctx}
	}

	return activeTracer.StartSpan(ctx, operationName)
}

// StartTraceWithContext starting trace child span from parent span, returning tracer and context
func StartTraceWithContext(ctx context.Context, operationName string) (Tracer, context.Context) {
	t := StartTrace(ctx, operationName)
	return t, t.Context()
}

// StartTraceFromHeader starting trace from root app handler based on header
func StartTraceFromHeader(ctx context.Context, operationName string, header map[string]string) (Tracer, context.Context) {
	tc := activeTracer.StartRootSpan(ctx, operationName, header)
	return tc, tc.Context()
}

// SkipTraceContext inject to context for skip span tracer
func SkipTraceContext(ctx context.Context) context.Context {
	return candishared.SetToContext(ctx, skipTracer, struct{}{})
}

const skipTracer candishared.ContextKey = "skipTracer"

type noopTracer struct{ ctx context.Context }

func (n noopTracer) Context() context.Context                   { return n.ctx }
func (noopTracer) SetTag(key string, value interface{})         {}
func (noopTracer) InjectRequestHeader(header map[string]string) {}
func (noopTracer) SetError(err error)                           {}
func (noopTracer) Log(key string, value interface{})            {}
func (noopTracer) Finish(opts ...FinishOptionFunc)              {}

func (n noopTracer) StartSpan(ctx context.Context, opName string) Tracer {
	n.ctx = ctx
	return &n
}
func (n noopTracer) StartRootSpan(ctx context.Context, operationName string, header map[string]string) Tracer {
	n.ctx = ctx
	return &n
}
