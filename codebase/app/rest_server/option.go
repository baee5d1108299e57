package restserver

import (
	"context"
	"strings"

	"github.com/labstack/echo"
)

type (
	option struct {
		httpPort            uint16
		rootPath            string
		debugMode           bool
		jaegerMaxPacketSize int
		middlewares         []echo.MiddlewareFunc
		afterResponseHooks  []AfterResponseHook
	}

	// OptionFunc type
	OptionFunc func(*option)

	// AfterResponseHook run after response has been written to client,
	// context is detached from request cancellation
	AfterResponseHook func(ctx context.Context)
)

const defaultJaegerMaxPacketSize = 65000

func getDefaultOption() option {
	return option{
		httpPort:            8000,
		rootPath:            "",
		debugMode:           true,
		jaegerMaxPacketSize: defaultJaegerMaxPacketSize,
	}
}

// SetHTTPPort option func
func SetHTTPPort(port uint16) OptionFunc {
	return func(o *option) {
		o.httpPort = port
	}
}

// SetRootPath option func, modules are mounted under root path
func SetRootPath(rootPath string) OptionFunc {
	return func(o *option) {
		rootPath = strings.Trim(rootPath, "/")
		if rootPath != "" {
			rootPath = "/" + rootPath
		}
		o.rootPath = rootPath
	}
}

// SetDebugMode option func
func SetDebugMode(debugMode bool) OptionFunc {
	return func(o *option) {
		o.debugMode = debugMode
	}
}

// SetJaegerMaxPacketSize option func
func SetJaegerMaxPacketSize(max int) OptionFunc {
	return func(o *option) {
		o.jaegerMaxPacketSize = max
	}
}

// AddMiddlewares option func
func AddMiddlewares(middlewares ...echo.MiddlewareFunc) OptionFunc {
	return func(o *option) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// AddAfterResponseHook option func
func AddAfterResponseHook(hooks ...AfterResponseHook) OptionFunc {
	return func(o *option) {
		o.afterResponseHooks = append(o.afterResponseHooks, hooks...)
	}
}
