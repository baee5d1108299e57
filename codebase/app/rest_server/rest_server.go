package restserver

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/golangid/gqlsubscription/codebase/factory"
	"github.com/golangid/gqlsubscription/codebase/factory/types"
	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/wrapper"
	"github.com/labstack/echo"
)

type restServer struct {
	serverEngine *echo.Echo
	service      factory.ServiceFactory
	opt          option
}

// NewServer create new REST server
func NewServer(service factory.ServiceFactory, opts ...OptionFunc) factory.AppServerFactory {
	server := &restServer{
		serverEngine: echo.New(),
		service:      service,
		opt:          getDefaultOption(),
	}
	for _, opt := range opts {
		opt(&server.opt)
	}

	server.serverEngine.HideBanner = true
	server.serverEngine.Debug = server.opt.debugMode
	server.serverEngine.HTTPErrorHandler = CustomHTTPErrorHandler

	// hooks are the outermost so that they run after every other middleware has finished the response
	server.serverEngine.Use(server.afterResponseMiddleware, server.tracerMiddleware)
	if server.opt.debugMode {
		server.serverEngine.Use(server.loggerMiddleware)
	}
	server.serverEngine.Use(server.opt.middlewares...)

	server.serverEngine.GET("/", server.rootHandler)
	server.serverEngine.GET("/health", server.healthHandler)

	root := server.serverEngine.Group(server.opt.rootPath)
	for _, m := range service.GetModules() {
		if h := m.RESTHandler(); h != nil {
			h.Mount(root)
		}
	}

	routes := server.serverEngine.Routes()
	sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })
	for _, route := range routes {
		// catch all routes registered by echo group
		if strings.Contains(route.Name, "(*Group).Use") {
			continue
		}
		logger.LogYellow(fmt.Sprintf("[REST-ROUTE] %s %-30s", candihelper.StringGreen(fmt.Sprintf("%-6s", route.Method)), route.Path))
	}

	return server
}

func (h *restServer) Serve() {
	fmt.Printf("\x1b[34;1m⇨ HTTP server run at port [::]:%d\x1b[0m\n\n", h.opt.httpPort)
	if err := h.serverEngine.Start(fmt.Sprintf(":%d", h.opt.httpPort)); err != nil && err != http.ErrServerClosed {
		log.Panicf("REST Server: Unexpected Error: %v", err)
	}
}

func (h *restServer) Shutdown(ctx context.Context) {
	deferFunc := logger.LogWithDefer("Stopping HTTP server...")
	defer deferFunc()

	if err := h.serverEngine.Shutdown(ctx); err != nil {
		logger.LogIfError(err)
	}
}

func (h *restServer) Name() string {
	return string(types.REST)
}

// ServeHTTP expose echo engine as http.Handler
func (h *restServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.serverEngine.ServeHTTP(w, r)
}

func (h *restServer) rootHandler(c echo.Context) error {
	return wrapper.NewHTTPResponse(http.StatusOK, fmt.Sprintf("Service %s up and running", h.service.Name())).JSON(c.Response())
}

func (h *restServer) healthHandler(c echo.Context) error {
	status := map[string]string{}
	code := http.StatusOK
	for name, err := range h.service.GetDependency().Health() {
		status[name] = "ok"
		if err != nil {
			status[name] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	return wrapper.NewHTTPResponse(code, "health check", status).JSON(c.Response())
}
