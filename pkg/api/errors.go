package api

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/filemanager/pkg/binder"
	"github.com/dmitrymomot/filemanager/pkg/files"
	"github.com/dmitrymomot/filemanager/pkg/handler"
)

var (
	errMissingName       = handler.NewHTTPError(http.StatusBadRequest, "Missing name")
	errMissingType       = handler.NewHTTPError(http.StatusBadRequest, "Missing type")
	errMissingData       = handler.NewHTTPError(http.StatusBadRequest, "Missing data")
	errInvalidData       = handler.NewHTTPError(http.StatusBadRequest, "Invalid data")
	errParentNotFound    = handler.NewHTTPError(http.StatusBadRequest, "Parent not found")
	errParentNotFolder   = handler.NewHTTPError(http.StatusBadRequest, "Parent is not a folder")
	errFolderNoContent   = handler.NewHTTPError(http.StatusBadRequest, "A folder doesn't have content")
	errInvalidBody       = handler.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	errBodyTooLarge      = handler.NewHTTPError(http.StatusRequestEntityTooLarge, "Request body too large")
	errUnsupportedMedium = handler.NewHTTPError(http.StatusUnsupportedMediaType, "Unsupported media type")
)

var errorTable = []struct {
	err    error
	mapped handler.HTTPError
}{
	{files.ErrMissingName, errMissingName},
	{files.ErrMissingType, errMissingType},
	{files.ErrMissingData, errMissingData},
	{files.ErrInvalidData, errInvalidData},
	{files.ErrParentNotFound, errParentNotFound},
	{files.ErrParentNotFolder, errParentNotFolder},
	{files.ErrFolderHasNoContent, errFolderNoContent},
	{files.ErrNotFound, handler.ErrNotFound},
	{binder.ErrBodyTooLarge, errBodyTooLarge},
	{binder.ErrMissingContentType, errUnsupportedMedium},
	{binder.ErrUnsupportedMediaType, errUnsupportedMedium},
	{binder.ErrFailedToParseJSON, errInvalidBody},
	{binder.ErrInvalidQuery, errInvalidBody},
	{binder.ErrInvalidPath, handler.ErrNotFound},
}

// mapError translates domain and binding errors into client errors.
func mapError(err error) (handler.HTTPError, bool) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.mapped, true
		}
	}
	return handler.HTTPError{}, false
}
