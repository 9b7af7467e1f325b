package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// FileID records the file node identifier under the key "file_id".
func FileID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("file_id", id)
}

// FileName records a user supplied file name under the key "file_name".
func FileName(name string) slog.Attr {
	return slog.String("file_name", name)
}

// BlobKey records a blob storage key under the key "blob_key".
func BlobKey(key string) slog.Attr {
	return slog.String("blob_key", key)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
