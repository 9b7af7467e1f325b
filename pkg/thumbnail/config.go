package thumbnail

import "time"

// Config configures derivative generation.
type Config struct {
	Widths         []int         `env:"THUMBNAIL_WIDTHS" envDefault:"500,250,100" envSeparator:","`
	DispatchBuffer int           `env:"THUMBNAIL_DISPATCH_BUFFER" envDefault:"256"`
	Queue          string        `env:"THUMBNAIL_QUEUE" envDefault:"thumbnails"`
	MaxRetries     int8          `env:"THUMBNAIL_MAX_RETRIES" envDefault:"3"`
	EnqueueTimeout time.Duration `env:"THUMBNAIL_ENQUEUE_TIMEOUT" envDefault:"5s"`
	MaxPixels      int64         `env:"THUMBNAIL_MAX_PIXELS" envDefault:"25000000"`
}
