package restserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/codebase/factory"
	"github.com/golangid/gqlsubscription/codebase/factory/dependency"
	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/wrapper"
	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoHandler struct{}

func (echoHandler) Mount(root *echo.Group) {
	root.POST("/echo", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"path": c.Path()})
	})
	root.GET("/missing", func(c echo.Context) error {
		return candishared.NewNotFoundError("subscriber", "abc")
	})
	root.GET("/broken", func(c echo.Context) error {
		return errors.New("broken")
	})
}

type module struct{}

func (module) RESTHandler() interfaces.EchoRestHandler   { return echoHandler{} }
func (module) GraphQLHandler() interfaces.GraphQLHandler { return nil }
func (module) Name() string                              { return "echo" }

type service struct{}

func (service) GetDependency() dependency.Dependency { return dependency.InitDependency() }
func (service) GetModules() []factory.ModuleFactory  { return []factory.ModuleFactory{module{}} }
func (service) Name() string                         { return "test-service" }

func newTestServer(opts ...OptionFunc) *restServer {
	opts = append([]OptionFunc{SetDebugMode(false)}, opts...)
	return NewServer(service{}, opts...).(*restServer)
}

func TestRestServer_Mount(t *testing.T) {
	server := newTestServer(SetRootPath("api/"))

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"path":"/api/echo"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test-service")

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRestServer_ErrorHandler(t *testing.T) {
	server := newTestServer()

	tests := []struct {
		path     string
		wantCode int
		wantMsg  string
	}{
		{path: "/missing", wantCode: http.StatusNotFound},
		{path: "/broken", wantCode: http.StatusInternalServerError, wantMsg: "broken"},
		{path: "/unknown", wantCode: http.StatusNotFound, wantMsg: `Resource "GET /unknown" not found`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)

			var resp wrapper.HTTPResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Message)
			}
		})
	}
}

func TestRestServer_AfterResponseHook(t *testing.T) {
	var calls []string
	var bodyWhenHookRun string
	var rec *httptest.ResponseRecorder

	server := newTestServer(
		AddAfterResponseHook(func(ctx context.Context) {
			bodyWhenHookRun = rec.Body.String()
			calls = append(calls, "flush")
		}),
		AddAfterResponseHook(func(ctx context.Context) {
			panic("hook failure")
		}),
		AddAfterResponseHook(func(ctx context.Context) {
			assert.NoError(t, ctx.Err())
			calls = append(calls, "after panic")
		}),
	)

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, rec.Flushed)
	assert.JSONEq(t, `{"path":"/echo"}`, bodyWhenHookRun)
	assert.Equal(t, []string{"flush", "after panic"}, calls)

	calls = nil
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/broken", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []string{"flush", "after panic"}, calls)
}

func TestSetRootPath(t *testing.T) {
	for input, want := range map[string]string{"": "", "/": "", "api": "/api", "/api/v1/": "/api/v1"} {
		opt := getDefaultOption()
		SetRootPath(input)(&opt)
		assert.Equal(t, want, opt.rootPath, input)
	}
}
