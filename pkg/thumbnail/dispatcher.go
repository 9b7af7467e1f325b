package thumbnail

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/filemanager/pkg/logger"
	"github.com/dmitrymomot/filemanager/pkg/queue"
)

// Enqueuer stores jobs for the worker side.
type Enqueuer interface {
	Enqueue(ctx context.Context, payload any, opts ...queue.EnqueueOption) error
}

// Dispatcher buffers jobs in a bounded channel and drains them into an
// Enqueuer from the goroutine started by Run.
type Dispatcher struct {
	enqueuer       Enqueuer
	jobs           chan DerivativeJob
	queue          string
	maxRetries     int8
	enqueueTimeout time.Duration
	logger         *slog.Logger

	// mu orders sends in Dispatch against closing in Run, so every job
	// accepted before close is seen by the final drain.
	mu     sync.RWMutex
	closed bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a dispatcher from cfg.
func NewDispatcher(enqueuer Enqueuer, cfg Config, opts ...DispatcherOption) *Dispatcher {
	buffer := cfg.DispatchBuffer
	if buffer <= 0 {
		buffer = 256
	}
	timeout := cfg.EnqueueTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	d := &Dispatcher{
		enqueuer:       enqueuer,
		jobs:           make(chan DerivativeJob, buffer),
		queue:          cfg.Queue,
		maxRetries:     cfg.MaxRetries,
		enqueueTimeout: timeout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(logger.Component("thumbnail.dispatcher"))
	return d
}

// Dispatch queues a job without blocking. It fails with ErrBufferFull when
// the buffer is saturated and with ErrDispatcherClosed after shutdown.
func (d *Dispatcher) Dispatch(ctx context.Context, userID, fileID string) error {
	job := DerivativeJob{UserID: userID, FileID: fileID}
	if err := job.Validate(); err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.jobs <- job:
		return nil
	default:
		d.logger.WarnContext(ctx, "dispatch buffer full, dropping derivative job",
			logger.FileID(fileID), logger.UserID(userID))
		return ErrBufferFull
	}
}

// Pending returns the number of buffered jobs.
func (d *Dispatcher) Pending() int {
	return len(d.jobs)
}

// Run drains the buffer into the enqueuer until ctx is done, then flushes what
// is still buffered. The returned function is suitable for errgroup.
func (d *Dispatcher) Run(ctx context.Context) func() error {
	return func() error {
		detached := context.WithoutCancel(ctx)
		for {
			select {
			case job := <-d.jobs:
				d.enqueue(detached, job)
			case <-ctx.Done():
				d.close()
				d.drain(detached)
				return nil
			}
		}
	}
}

func (d *Dispatcher) close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

func (d *Dispatcher) drain(ctx context.Context) {
	flushed := 0
	for {
		select {
		case job := <-d.jobs:
			d.enqueue(ctx, job)
			flushed++
		default:
			if flushed > 0 {
				d.logger.InfoContext(ctx, "flushed buffered derivative jobs", slog.Int("count", flushed))
			}
			return
		}
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, job DerivativeJob) {
	ctx, cancel := context.WithTimeout(ctx, d.enqueueTimeout)
	defer cancel()

	opts := []queue.EnqueueOption{queue.WithMaxRetries(d.maxRetries)}
	if d.queue != "" {
		opts = append(opts, queue.WithQueue(d.queue))
	}

	if err := d.enqueuer.Enqueue(ctx, job, opts...); err != nil {
		d.logger.ErrorContext(ctx, "failed to enqueue derivative job",
			logger.FileID(job.FileID), logger.UserID(job.UserID), logger.Error(err))
	}
}
