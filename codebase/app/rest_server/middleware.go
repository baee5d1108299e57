package restserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/tracer"
	"github.com/golangid/gqlsubscription/wrapper"
	"github.com/labstack/echo"
	"go.uber.org/zap/zapcore"
)

// tracerMiddleware for wrap from http inbound (request from client)
func (h *restServer) tracerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		header := map[string]string{}
		for key := range req.Header {
			header[key] = req.Header.Get(key)
		}

		trace, ctx := tracer.StartTraceFromHeader(req.Context(), fmt.Sprintf("%s %s", req.Method, req.URL.Path), header)
		defer trace.Finish()

		httpDump, _ := httputil.DumpRequest(req, false)
		trace.SetTag("http.url_path", req.URL.Path)
		trace.SetTag("http.method", req.Method)
		trace.Log("http.request", httpDump)

		body, _ := io.ReadAll(req.Body)
		if len(body) < h.opt.jaegerMaxPacketSize { // tracer cannot show root span with bigger packet
			trace.Log("request.body", body)
		} else {
			trace.Log("request.body.size", len(body))
		}
		req.Body = io.NopCloser(bytes.NewBuffer(body))

		resBody := new(bytes.Buffer)
		c.Response().Writer = wrapper.NewWrapHTTPResponseWriter(resBody, c.Response().Writer)
		c.SetRequest(req.WithContext(ctx))

		err := next(c)
		statusCode := c.Response().Status
		trace.SetTag("http.status_code", statusCode)
		if statusCode >= http.StatusBadRequest {
			trace.SetError(fmt.Errorf("resp.code:%d", statusCode))
		}

		if resBody.Len() < h.opt.jaegerMaxPacketSize {
			trace.Log("response.body", resBody.String())
		} else {
			trace.Log("response.body.size", resBody.Len())
		}
		return err
	}
}

// loggerMiddleware log every request with zap
func (h *restServer) loggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		req := c.Request()
		res := c.Response()
		start := time.Now()
		if err = next(c); err != nil {
			c.Error(err)
		}

		level := zapcore.InfoLevel
		switch {
		case res.Status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case res.Status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		fields := map[string]interface{}{
			"message":   fmt.Sprintf("%s %s", req.Method, req.RequestURI),
			"remote_ip": c.RealIP(),
			"host":      req.Host,
			"status":    res.Status,
			"latency":   time.Since(start).String(),
			"bytes_out": res.Size,
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		logger.LogWithField(level, fields)
		return nil
	}
}

// afterResponseMiddleware flush written response to client then run after response hooks
func (h *restServer) afterResponseMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		if c.Response().Committed {
			c.Response().Flush()
		}

		ctx := context.WithoutCancel(c.Request().Context())
		for _, hook := range h.opt.afterResponseHooks {
			h.runHook(ctx, hook)
		}
		return nil
	}
}

func (h *restServer) runHook(ctx context.Context, hook AfterResponseHook) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogEf("rest_server: after response hook panic: %v", r)
		}
	}()
	hook(ctx)
}
