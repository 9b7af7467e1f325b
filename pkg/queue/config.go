package queue

import "time"

// Config holds the configuration for the task queue. Storage selects
// StorageRedis or StorageMemory.
type Config struct {
	Storage            string        `env:"QUEUE_STORAGE" envDefault:"redis"`
	KeyPrefix          string        `env:"QUEUE_REDIS_PREFIX" envDefault:"queue"`
	PollInterval       time.Duration `env:"QUEUE_POLL_INTERVAL" envDefault:"1s"`
	LockTimeout        time.Duration `env:"QUEUE_LOCK_TIMEOUT" envDefault:"5m"`
	MaxConcurrentTasks int           `env:"QUEUE_MAX_CONCURRENT_TASKS" envDefault:"4"`
	MaxRetries         int8          `env:"QUEUE_MAX_RETRIES" envDefault:"3"`
	RetryBackoff       time.Duration `env:"QUEUE_RETRY_BACKOFF" envDefault:"30s"`
	CompletedTTL       time.Duration `env:"QUEUE_COMPLETED_TTL" envDefault:"24h"`
}

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)
