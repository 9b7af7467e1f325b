package api

import "time"

// Config tunes request handling.
type Config struct {
	MaxBodySize   int64         `env:"API_MAX_BODY_SIZE" envDefault:"33554432"`
	StatusTimeout time.Duration `env:"API_STATUS_TIMEOUT" envDefault:"2s"`
}
