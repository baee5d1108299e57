package wrapper

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/golangid/gqlsubscription/candishared"
)

// HTTPResponse default http response format
type HTTPResponse struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// NewHTTPResponse for create common response
func NewHTTPResponse(code int, message string, params ...interface{}) *HTTPResponse {
	commonResponse := new(HTTPResponse)

	for _, param := range params {
		switch val := param.(type) {
		case candihelper.MultiError:
			commonResponse.Errors = val.ToMap()
		case error:
			commonResponse.Errors = candihelper.NewMultiError().Append("detail", val).ToMap()
		default:
			commonResponse.Data = param
		}
	}

	if code < http.StatusBadRequest {
		commonResponse.Success = true
	}
	commonResponse.Code = code
	commonResponse.Message = message
	return commonResponse
}

// NewHTTPErrorResponse map error code to http status
func NewHTTPErrorResponse(err error) *HTTPResponse {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, candishared.ErrNotFound):
		code = http.StatusNotFound
	case candishared.IsClientError(err):
		code = http.StatusBadRequest
	default:
		var mErr candihelper.MultiError
		if errors.As(err, &mErr) {
			code = http.StatusBadRequest
		}
	}
	return NewHTTPResponse(code, err.Error(), err)
}

// JSON for set http JSON response (Content-Type: application/json) with parameter is http response writer
func (resp *HTTPResponse) JSON(w http.ResponseWriter) error {
	w.Header().Set(candihelper.HeaderContentType, candihelper.HeaderMIMEApplicationJSON)
	w.WriteHeader(resp.Code)
	return json.NewEncoder(w).Encode(resp)
}
