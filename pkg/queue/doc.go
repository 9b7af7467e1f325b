// Package queue is a small persistent task queue: an Enqueuer stores tasks,
// a Worker claims and runs them through typed handlers.
//
// Storage is pluggable through EnqueuerRepository and WorkerRepository.
// RedisStorage is the production backend, shared by every process that
// enqueues or works; MemoryStorage is a single-process replacement for tests
// and local runs.
//
// Delivery is at-least-once. A claimed task is locked for the worker's lock
// timeout; if the worker dies the lock expires and the task becomes claimable
// again. A failing handler is retried with linear backoff until MaxRetries is
// reached, then the task is moved to the dead-letter list. Returning an error
// wrapped with Permanent skips the remaining retries.
//
//	type ResizeImage struct{ FileID string }
//
//	w, _ := queue.NewWorker(storage, queue.WithMaxConcurrentTasks(4))
//	_ = w.RegisterHandler(queue.NewTaskHandler(func(ctx context.Context, p ResizeImage) error {
//		return resize(ctx, p.FileID)
//	}))
//	g.Go(w.Run(ctx))
//
//	e, _ := queue.NewEnqueuer(storage)
//	_ = e.Enqueue(ctx, ResizeImage{FileID: id})
//
// The task name defaults to the payload's qualified type name, so the enqueuing
// and the handling side only need to share the payload type.
package queue
