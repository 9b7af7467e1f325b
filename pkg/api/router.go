package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/filemanager/pkg/files"
	"github.com/dmitrymomot/filemanager/pkg/httpserver"
	"github.com/dmitrymomot/filemanager/pkg/logger"
	"github.com/dmitrymomot/filemanager/pkg/requestid"
	"github.com/dmitrymomot/filemanager/pkg/session"
)

// FileService is the subset of files.Service the API depends on.
type FileService interface {
	Upload(ctx context.Context, in files.UploadInput) (*files.FileNode, error)
	Show(ctx context.Context, ownerID, fileID string) (*files.FileNode, error)
	List(ctx context.Context, ownerID, parentID string, page int) (files.Page, error)
	SetVisibility(ctx context.Context, ownerID, fileID string, isPublic bool) (*files.FileNode, error)
	Fetch(ctx context.Context, in files.FetchInput) (*files.Content, error)
}

// Authenticator provides session middlewares.
type Authenticator interface {
	RequireAuth(next http.Handler) http.Handler
	Optional(next http.Handler) http.Handler
}

// Option configures the router.
type Option func(*API)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithStatusChecks registers dependency checks reported by GET /status.
func WithStatusChecks(checks map[string]httpserver.Check) Option {
	return func(a *API) {
		a.checks = checks
	}
}

// WithConfig applies cfg.
func WithConfig(cfg Config) Option {
	return func(a *API) {
		a.cfg = cfg
	}
}

// API holds the HTTP handlers.
type API struct {
	files  FileService
	auth   Authenticator
	checks map[string]httpserver.Check
	cfg    Config
	logger *slog.Logger
}

// New creates the API.
func New(svc FileService, auth Authenticator, opts ...Option) *API {
	a := &API{
		files:  svc,
		auth:   auth,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(logger.Component("api"))
	return a
}

// Router builds the chi router.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(accessLog(a.logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFoundRoute)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errMethodNotAllowed)
	})

	r.Get("/status", httpserver.StatusHandler(a.logger, a.cfg.StatusTimeout, a.checks))

	r.Route("/files", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(a.auth.RequireAuth)
			r.Post("/", a.upload())
			r.Get("/", a.list())
			r.Get("/{id}", a.show())
			r.Put("/{id}/publish", a.publish(true))
			r.Put("/{id}/unpublish", a.publish(false))
		})
		r.With(a.auth.Optional).Get("/{id}/data", a.data())
	})

	return r
}

// currentUser returns the authenticated user id set by the session middleware.
func currentUser(ctx context.Context) string {
	id, _ := session.UserIDFromContext(ctx)
	return id
}
