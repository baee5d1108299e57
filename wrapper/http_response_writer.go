package wrapper

import (
	"io"
	"net/http"
)

// WrapHTTPResponseWriter copy response body to additional writer, keep status code
type WrapHTTPResponseWriter struct {
	statusCode int
	writer     io.Writer
	rw         http.ResponseWriter
}

// NewWrapHTTPResponseWriter init new wrapper for http response writer
func NewWrapHTTPResponseWriter(w io.Writer, httpResponseWriter http.ResponseWriter) *WrapHTTPResponseWriter {
	return &WrapHTTPResponseWriter{statusCode: http.StatusOK, writer: io.MultiWriter(w, httpResponseWriter), rw: httpResponseWriter}
}

// StatusCode written status code, default 200
func (w *WrapHTTPResponseWriter) StatusCode() int {
	return w.statusCode
}

// Header method
func (w *WrapHTTPResponseWriter) Header() http.Header {
	return w.rw.Header()
}

func (w *WrapHTTPResponseWriter) Write(data []byte) (int, error) {
	return w.writer.Write(data)
}

// WriteHeader method
func (w *WrapHTTPResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.rw.WriteHeader(statusCode)
}

// Flush method
func (w *WrapHTTPResponseWriter) Flush() {
	if flusher, ok := w.rw.(http.Flusher); ok {
		flusher.Flush()
	}
}
