// Package binder decodes HTTP request data into Go structs.
//
// Three binders are provided and can be combined through handler.WithBinders:
//
//   - JSON reads the request body (application/json) with a size limit.
//   - Query fills fields tagged `query:"name"` from the URL query string.
//   - Path fills fields tagged `path:"name"` using a router-specific extractor,
//     for example chi.URLParam.
//
// Usage:
//
//	type showRequest struct {
//		ID   string `path:"id"`
//		Size string `query:"size"`
//	}
//
//	r.Get("/files/{id}/data", handler.Wrap(show,
//		handler.WithBinders(binder.Path(chi.URLParam), binder.Query()),
//	))
//
// Supported field types for Query and Path are strings, signed and unsigned
// integers, floats, bools, pointers to those and slices of them. Fields
// without a value are left untouched.
//
// All binders return errors wrapping the package sentinels so callers can
// map them with errors.Is.
package binder
