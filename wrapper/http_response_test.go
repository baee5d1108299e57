package wrapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/golangid/gqlsubscription/candishared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPResponse(t *testing.T) {
	type Data struct {
		ID string `json:"id"`
	}

	multiError := candihelper.NewMultiError()
	multiError.Append("test", fmt.Errorf("error test"))

	tests := []struct {
		name    string
		code    int
		message string
		params  []interface{}
		want    *HTTPResponse
	}{
		{
			name: "Testcase #1: Response data", code: http.StatusOK, message: "Get detail data",
			params: []interface{}{Data{ID: "061499700032"}},
			want:   &HTTPResponse{Success: true, Code: 200, Message: "Get detail data", Data: Data{ID: "061499700032"}},
		},
		{
			name: "Testcase #2: Response only message", code: http.StatusAccepted, message: "queued",
			want: &HTTPResponse{Success: true, Code: 202, Message: "queued"},
		},
		{
			name: "Testcase #3: Response failed (multi error)", code: http.StatusBadRequest, message: "invalid",
			params: []interface{}{multiError},
			want:   &HTTPResponse{Code: 400, Message: "invalid", Errors: map[string]string{"test": "error test"}},
		},
		{
			name: "Testcase #4: Response failed (error detail)", code: http.StatusBadRequest, message: "Failed validate",
			params: []interface{}{errors.New("error")},
			want:   &HTTPResponse{Code: 400, Message: "Failed validate", Errors: map[string]string{"detail": "error"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewHTTPResponse(tt.code, tt.message, tt.params...))
		})
	}
}

func TestNewHTTPErrorResponse(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NewHTTPErrorResponse(candishared.NewNotFoundError("stop", "abc")).Code)
	assert.Equal(t, http.StatusBadRequest, NewHTTPErrorResponse(candishared.NewInvalidMessageError("unknown type")).Code)
	assert.Equal(t, http.StatusBadRequest, NewHTTPErrorResponse(candihelper.NewMultiError().Append("type", errors.New("required"))).Code)
	assert.Equal(t, http.StatusInternalServerError, NewHTTPErrorResponse(errors.New("connection refused")).Code)
}

func TestHTTPResponse_JSON(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := NewWrapHTTPResponseWriter(httptest.NewRecorder(), rec)

	require.NoError(t, NewHTTPResponse(http.StatusCreated, "created", map[string]string{"id": "abc"}).JSON(wrapped))
	assert.Equal(t, http.StatusCreated, wrapped.StatusCode())
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, map[string]interface{}{"id": "abc"}, resp["data"])
}
