package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filemanager/pkg/binder"
	"github.com/dmitrymomot/filemanager/pkg/handler"
	"github.com/dmitrymomot/filemanager/pkg/logger"
)

type echoRequest struct {
	Name string `json:"name"`
	Page int    `query:"page"`
}

var errDomain = errors.New("domain failure")

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestWrap_BindsAndRendersJSON(t *testing.T) {
	t.Parallel()

	h := handler.Wrap[echoRequest](func(ctx handler.Context, req echoRequest) handler.Response {
		assert.NotNil(t, ctx.Request())
		return handler.JSON(req, handler.WithStatus(http.StatusCreated), handler.WithTotalCount(42))
	}, handler.WithBinders(binder.JSON(), binder.Query()), handler.WithLogger(logger.Discard()))

	req := httptest.NewRequest(http.MethodPost, "/echo?page=3", strings.NewReader(`{"name":"a"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "42", rec.Header().Get("X-Total-Count"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"name":"a","Page":3}`, rec.Body.String())
}

func TestWrap_Errors(t *testing.T) {
	t.Parallel()

	mapper := func(err error) (handler.HTTPError, bool) {
		if errors.Is(err, errDomain) {
			return handler.NewHTTPError(http.StatusBadRequest, "Domain failure"), true
		}
		return handler.HTTPError{}, false
	}

	tests := []struct {
		name     string
		resp     handler.Response
		wantCode int
		wantMsg  string
	}{
		{"http error", handler.Error(handler.ErrUnauthorized), http.StatusUnauthorized, "Unauthorized"},
		{"wrapped http error", handler.Error(errors.Join(errors.New("ctx"), handler.ErrNotFound)), http.StatusNotFound, "Not found"},
		{"mapped error", handler.Error(errDomain), http.StatusBadRequest, "Domain failure"},
		{"unknown error", handler.Error(errors.New("boom")), http.StatusInternalServerError, "Internal server error"},
		{"nil response", nil, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := handler.Wrap[struct{}](func(handler.Context, struct{}) handler.Response {
				return tt.resp
			}, handler.WithErrorMapper(mapper), handler.WithLogger(logger.Discard()))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec))
		})
	}
}

func TestWrap_BinderFailure(t *testing.T) {
	t.Parallel()

	called := false
	h := handler.Wrap[echoRequest](func(handler.Context, echoRequest) handler.Response {
		called = true
		return handler.JSON(nil)
	}, handler.WithBinders(binder.JSON()), handler.WithErrorMapper(func(err error) (handler.HTTPError, bool) {
		if errors.Is(err, binder.ErrFailedToParseJSON) {
			return handler.ErrBadRequest, true
		}
		return handler.HTTPError{}, false
	}), handler.WithLogger(logger.Discard()))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bad request", decodeError(t, rec))
}

func TestBytes(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, handler.Bytes([]byte("hello"), "text/plain").Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "5", rec.Header().Get("Content-Length"))
	assert.Equal(t, "hello", rec.Body.String())

	rec = httptest.NewRecorder()
	require.NoError(t, handler.Bytes(nil, "").Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
}
