package tracer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/golangid/gqlsubscription/candihelper"
	opentracing "github.com/opentracing/opentracing-go"
	ext "github.com/opentracing/opentracing-go/ext"
	otlog "github.com/opentracing/opentracing-go/log"
	config "github.com/uber/jaeger-client-go/config"
)

const defaultMaxTagLength = int(64 * candihelper.KByte)

// InitJaeger init jaeger tracing with opentracing global tracer, returning closer for flush remaining spans
func InitJaeger(serviceName string, opts ...OptionFunc) (io.Closer, error) {
	option := Option{MaxTagLength: defaultMaxTagLength}
	for _, opt := range opts {
		opt(&option)
	}

	if option.Level != "" {
		serviceName = fmt.Sprintf("%s-%s", serviceName, strings.ToLower(option.Level))
	}
	defaultTags := []opentracing.Tag{
		{Key: "num_cpu", Value: runtime.NumCPU()},
		{Key: "go_version", Value: runtime.Version()},
		{Key: "version", Value: candihelper.Version},
	}
	if option.BuildNumberTag != "" {
		defaultTags = append(defaultTags, opentracing.Tag{
			Key: "build_number", Value: option.BuildNumberTag,
		})
	}
	cfg := &config.Configuration{
		Sampler: &config.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &config.ReporterConfig{
			LogSpans:            false,
			BufferFlushInterval: 1 * time.Second,
			LocalAgentHostPort:  option.AgentHost,
		},
		ServiceName: serviceName,
		Tags:        defaultTags,
	}
	tracer, closer, err := cfg.NewTracer(config.MaxTagValueLength(option.MaxTagLength))
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	SetTracerPlatformType(&jaegerPlatform{maxTagLength: option.MaxTagLength})
	return closer, nil
}

type jaegerPlatform struct {
	maxTagLength int
}

func (j *jaegerPlatform) StartSpan(ctx context.Context, operationName string) Tracer {
	span, ctx := opentracing.StartSpanFromContext(ctx, operationName)
	return &jaegerTraceImpl{ctx: ctx, span: span, maxTagLength: j.maxTagLength}
}

func (j *jaegerPlatform) StartRootSpan(ctx context.Context, operationName string, header map[string]string) Tracer {
	globalTracer := opentracing.GlobalTracer()

	httpHeader := http.Header{}
	for k, v := range header {
		httpHeader.Set(k, v)
	}
	var span opentracing.Span
	if spanCtx, err := globalTracer.Extract(opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(httpHeader)); err != nil {
		span = globalTracer.StartSpan(operationName)
	} else {
		span = globalTracer.StartSpan(operationName, ext.RPCServerOption(spanCtx))
	}
	ctx = opentracing.ContextWithSpan(ctx, span)
	return &jaegerTraceImpl{ctx: ctx, span: span, maxTagLength: j.maxTagLength}
}

type jaegerTraceImpl struct {
	ctx          context.Context
	span         opentracing.Span
	maxTagLength int
}

// Context get active context
func (t *jaegerTraceImpl) Context() context.Context {
	return t.ctx
}

// SetTag set tags in tracer span
func (t *jaegerTraceImpl) SetTag(key string, value interface{}) {
	t.span.SetTag(key, t.toValue(value))
}

// InjectRequestHeader to continue tracer with custom header carrier
func (t *jaegerTraceImpl) InjectRequestHeader(header map[string]string) {
	ext.SpanKindRPCClient.Set(t.span)
	httpHeader := http.Header{}
	t.span.Tracer().Inject(t.span.Context(), opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(httpHeader))
	for k := range httpHeader {
		header[k] = httpHeader.Get(k)
	}
}

// SetError set error in span
func (t *jaegerTraceImpl) SetError(err error) {
	if err == nil {
		return
	}
	ext.Error.Set(t.span, true)
	t.span.LogFields(otlog.String("error.message", err.Error()))
}

// Log set log in span
func (t *jaegerTraceImpl) Log(key string, value interface{}) {
	t.span.LogFields(otlog.Object(key, t.toValue(value)))
}

// Finish trace with additional tags data, must in deferred function
func (t *jaegerTraceImpl) Finish(opts ...FinishOptionFunc) {
	var finishOpt FinishOption
	for _, opt := range opts {
		opt(&finishOpt)
	}

	for k, v := range finishOpt.Tags {
		t.SetTag(k, v)
	}
	t.SetError(finishOpt.Error)
	t.span.SetTag("num_goroutines", runtime.NumGoroutine())
	t.span.Finish()
}

func (t *jaegerTraceImpl) toValue(v interface{}) interface{} {
	var str string
	switch val := v.(type) {
	case error:
		if val != nil {
			str = val.Error()
		}
	case string:
		str = val
	case bool, int8, int16, int32, int, int64, float32, float64:
		return v
	case []byte:
		str = string(val)
	default:
		b, _ := json.Marshal(val)
		str = string(b)
	}

	if t.maxTagLength > 0 && len(str) >= t.maxTagLength {
		return fmt.Sprintf("<<Overflow, cannot show data. Size is = %d bytes, max tag length = %d bytes>>",
			len(str), t.maxTagLength)
	}
	return str
}
