package thumbnail

import "errors"

var (
	ErrBufferFull       = errors.New("thumbnail dispatch buffer is full")
	ErrDispatcherClosed = errors.New("thumbnail dispatcher is closed")

	ErrMissingFileID = errors.New("missing fileId")
	ErrMissingUserID = errors.New("missing userId")
	ErrFileNotFound  = errors.New("file not found")
	ErrNotAnImage    = errors.New("file is not an image")

	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInvalidWidth      = errors.New("invalid target width")
	ErrImageTooLarge     = errors.New("image exceeds pixel budget")
	ErrRenderPanic       = errors.New("renderer panicked")
)
