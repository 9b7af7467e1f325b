// Package session resolves opaque session tokens to user identities.
//
// A session is a single key in the backing store: "auth_<token>" holding the
// user id, with the expiry set by whoever created it. Resolve never reports
// "bad token" and "no token" differently; both come back as ok=false so the
// HTTP layer can answer every unauthenticated request with the same 401.
//
// Two stores are provided: RedisStore for production and MemoryStore for tests
// and local runs. Authenticator wires a Store and a Transport into chi/net/http
// middleware that places the resolved user id into the request context.
//
//	auth := session.NewAuthenticator(session.NewRedisStore(client),
//		session.NewHeaderTransport(session.DefaultHeader))
//	r.With(auth.RequireAuth).Post("/files", upload)
//	r.With(auth.Optional).Get("/files/{id}/data", data)
package session
