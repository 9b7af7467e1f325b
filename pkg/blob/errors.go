package blob

import "errors"

var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidKey = errors.New("invalid blob key")

	ErrFailedToCreateDirectory = errors.New("failed to create directory")
	ErrFailedToWriteBlob       = errors.New("failed to write blob")
	ErrFailedToReadBlob        = errors.New("failed to read blob")
	ErrFailedToDeleteBlob      = errors.New("failed to delete blob")

	// S3-specific classification
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrRequestTimeout     = errors.New("request timed out")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")

	ErrOperationTimeout  = errors.New("operation timed out")
	ErrOperationCanceled = errors.New("operation canceled")

	ErrInvalidConfig      = errors.New("invalid blob storage configuration")
	ErrUnknownDriver      = errors.New("unknown blob driver")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
)
