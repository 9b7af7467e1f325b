package files

import "errors"

// Validation and lookup errors. Messages are the user-visible strings.
var (
	ErrMissingName        = errors.New("Missing name")
	ErrMissingType        = errors.New("Missing type")
	ErrMissingData        = errors.New("Missing data")
	ErrInvalidData        = errors.New("Invalid data")
	ErrParentNotFound     = errors.New("Parent not found")
	ErrParentNotFolder    = errors.New("Parent is not a folder")
	ErrNotFound           = errors.New("Not found")
	ErrFolderHasNoContent = errors.New("A folder doesn't have content")
)

// Infrastructure errors, wrapped around the underlying cause.
var (
	ErrFailedToStoreBlob = errors.New("failed to store file content")
	ErrFailedToReadBlob  = errors.New("failed to read file content")
	ErrRepository        = errors.New("file repository failure")
)
