package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type jsonResponse struct {
	status  int
	headers http.Header
	body    any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	for k, v := range j.headers {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithStatus sets the HTTP status code.
func WithStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithHeader adds a response header.
func WithHeader(key, value string) JSONOption {
	return func(r *jsonResponse) {
		r.headers.Add(key, value)
	}
}

// WithTotalCount sets the X-Total-Count header.
func WithTotalCount(n int64) JSONOption {
	return WithHeader("X-Total-Count", strconv.FormatInt(n, 10))
}

// JSON renders v as the response body with status 200 by default.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{
		status:  http.StatusOK,
		headers: make(http.Header),
		body:    v,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders {"error": e.Key} with e.Code.
func JSONError(e HTTPError) Response {
	return JSON(map[string]string{"error": e.Key}, WithStatus(e.Code))
}

type errorResponse struct {
	err error
}

func (e errorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return JSONError(ErrInternalServerError).Render(w, r)
}

// Error defers err to the Wrap error path, where it is mapped to an
// HTTPError and logged when unexpected.
func Error(err error) Response {
	return errorResponse{err: err}
}

type bytesResponse struct {
	contentType string
	data        []byte
}

func (b bytesResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", b.contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.data)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(b.data)
	return err
}

// Bytes renders raw data with the given content type.
func Bytes(data []byte, contentType string) Response {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return bytesResponse{contentType: contentType, data: data}
}
