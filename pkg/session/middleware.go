package session

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/filemanager/pkg/handler"
	"github.com/dmitrymomot/filemanager/pkg/logger"
)

// Authenticator resolves the request's session into a user id.
type Authenticator struct {
	resolver  Resolver
	transport Transport
	logger    *slog.Logger
}

// AuthenticatorOption configures an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithLogger sets the logger used for store failures.
func WithLogger(l *slog.Logger) AuthenticatorOption {
	return func(a *Authenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAuthenticator creates the middleware provider.
func NewAuthenticator(resolver Resolver, transport Transport, opts ...AuthenticatorOption) *Authenticator {
	if transport == nil {
		transport = NewHeaderTransport(DefaultHeader)
	}

	a := &Authenticator{
		resolver:  resolver,
		transport: transport,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate resolves the user id for r. Store failures are logged and
// reported as unauthenticated.
func (a *Authenticator) Authenticate(r *http.Request) (string, bool) {
	token, err := a.transport.GetToken(r)
	if err != nil {
		return "", false
	}

	userID, ok, err := a.resolver.Resolve(r.Context(), token)
	if err != nil {
		a.logger.ErrorContext(r.Context(), "session lookup failed",
			logger.Component("session"),
			logger.Error(err))
		return "", false
	}

	return userID, ok
}

// RequireAuth rejects requests without a valid session.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := a.Authenticate(r)
		if !ok {
			_ = handler.JSONError(handler.ErrUnauthorized).Render(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// Optional attaches the user id when a valid session is present and lets
// anonymous requests through.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := a.Authenticate(r); ok {
			r = r.WithContext(WithUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}
