package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopTracer(t *testing.T) {
	ctx := context.WithValue(context.Background(), skipTracer, "x")
	trace, traceCtx := StartTraceWithContext(ctx, "noop")
	assert.Equal(t, ctx, traceCtx)

	assert.NotPanics(t, func() {
		trace.SetTag("key", "value")
		trace.Log("key", map[string]string{"a": "b"})
		trace.SetError(errors.New("x"))
		trace.InjectRequestHeader(map[string]string{})
		trace.Finish(FinishWithError(errors.New("x")))
	})
}

func TestJaegerTraceImpl(t *testing.T) {
	mock := mocktracer.New()
	opentracing.SetGlobalTracer(mock)
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	platform := &jaegerPlatform{maxTagLength: 10}
	trace := platform.StartSpan(context.Background(), "subscription.flush")
	trace.SetTag("channel", "inbox")
	trace.SetTag("payload", "a long value over the limit")

	header := map[string]string{}
	trace.InjectRequestHeader(header)
	assert.NotEmpty(t, header)

	trace.Finish(FinishWithError(errors.New("hub down")), FinishWithAdditionalTags(map[string]interface{}{"count": 2}))

	spans := mock.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "subscription.flush", spans[0].OperationName)
	assert.Equal(t, "inbox", spans[0].Tag("channel"))
	assert.Equal(t, 2, spans[0].Tag("count"))
	assert.Equal(t, true, spans[0].Tag("error"))
	assert.Contains(t, spans[0].Tag("payload"), "Overflow")

	root := platform.StartRootSpan(context.Background(), "rest.endpoint", header)
	root.Finish()
	require.Len(t, mock.FinishedSpans(), 2)
	assert.Equal(t, spans[0].SpanContext.TraceID, mock.FinishedSpans()[1].SpanContext.TraceID)
}
