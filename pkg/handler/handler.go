package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/filemanager/pkg/logger"
)

// HandlerFunc handles a request already decoded into R.
type HandlerFunc[R any] func(ctx Context, req R) Response

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind parses an HTTP request into a typed value.
type Bind func(r *http.Request, v any) error

// ErrorMapper translates an arbitrary error into an HTTPError. It returns
// false when the error is unknown to it.
type ErrorMapper func(err error) (HTTPError, bool)

// WrapOption configures Wrap.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	binders []Bind
	mapper  ErrorMapper
	logger  *slog.Logger
}

// WithBinders sets request binders applied in order.
func WithBinders(binders ...Bind) WrapOption {
	return func(c *wrapConfig) {
		c.binders = append(c.binders, binders...)
	}
}

// WithErrorMapper sets the translation from domain errors to HTTP errors.
func WithErrorMapper(m ErrorMapper) WrapOption {
	return func(c *wrapConfig) {
		if m != nil {
			c.mapper = m
		}
	}
}

// WithLogger sets the logger used for unexpected errors.
func WithLogger(l *slog.Logger) WrapOption {
	return func(c *wrapConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Wrap converts a typed HandlerFunc to http.HandlerFunc.
func Wrap[R any](h HandlerFunc[R], opts ...WrapOption) http.HandlerFunc {
	cfg := &wrapConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r)

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				cfg.renderError(w, r, err)
				return
			}
		}

		response := h(ctx, req)
		if response == nil {
			cfg.renderError(w, r, ErrNilResponse)
			return
		}

		if er, ok := response.(errorResponse); ok {
			cfg.renderError(w, r, er.err)
			return
		}

		if err := response.Render(w, r); err != nil {
			cfg.logger.ErrorContext(r.Context(), "failed to render response", logger.Error(err))
		}
	}
}

func (c *wrapConfig) renderError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := c.resolve(err)
	if httpErr.Code >= http.StatusInternalServerError {
		c.logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Error(err))
	}
	_ = JSONError(httpErr).Render(w, r)
}

func (c *wrapConfig) resolve(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	if c.mapper != nil {
		if mapped, ok := c.mapper(err); ok {
			return mapped
		}
	}
	return ErrInternalServerError
}
