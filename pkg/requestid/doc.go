// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a well-formed X-Request-ID header supplied by the client
// or generates a UUID, stores it in the request context and echoes it back
// in the response header. LoggerExtractor plugs the id into the structured
// logger so every record written with a request context carries it:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid
