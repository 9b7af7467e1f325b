// Package httpserver runs an http.Handler with configured timeouts and
// graceful shutdown.
//
// Run blocks until the context is cancelled or Shutdown is called, then
// drains in-flight requests within the shutdown timeout. It fits errgroup
// based process lifecycles:
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	g.Go(func() error { return srv.Run(ctx, router) })
//
// StatusHandler reports the health of named dependencies as JSON.
package httpserver
