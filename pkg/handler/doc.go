// Package handler turns typed request handlers into http.HandlerFunc values.
//
// A HandlerFunc receives a Context (the request context plus access to the
// request and response writer) and a request value of type R populated by
// the configured binders. It returns a Response which renders itself.
//
//	type showRequest struct {
//		ID string `path:"id"`
//	}
//
//	show := func(ctx handler.Context, req showRequest) handler.Response {
//		node, err := svc.Show(ctx, userID, req.ID)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(node)
//	}
//
//	r.Get("/files/{id}", handler.Wrap(show,
//		handler.WithBinders(binder.Path(chi.URLParam)),
//	))
//
// Errors are rendered as {"error": "<message>"}. An HTTPError controls the
// status code and message; any other error becomes a 500 with a generic
// message. Callers translate domain errors with WithErrorMapper.
package handler
