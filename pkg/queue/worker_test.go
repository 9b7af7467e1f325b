package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filemanager/pkg/logger"
	"github.com/dmitrymomot/filemanager/pkg/queue"
)

type MockWorkerRepository struct {
	mock.Mock
}

func (m *MockWorkerRepository) ClaimTask(ctx context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*queue.Task, error) {
	args := m.Called(ctx, workerID, queues, lockDuration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.Task), args.Error(1)
}

func (m *MockWorkerRepository) CompleteTask(ctx context.Context, taskID uuid.UUID) error {
	return m.Called(ctx, taskID).Error(0)
}

func (m *MockWorkerRepository) FailTask(ctx context.Context, taskID uuid.UUID, errorMsg string) error {
	return m.Called(ctx, taskID, errorMsg).Error(0)
}

func (m *MockWorkerRepository) MoveToDLQ(ctx context.Context, taskID uuid.UUID) error {
	return m.Called(ctx, taskID).Error(0)
}

func newWorker(t *testing.T, repo queue.WorkerRepository, opts ...queue.WorkerOption) *queue.Worker {
	t.Helper()
	opts = append([]queue.WorkerOption{
		queue.WithPullInterval(10 * time.Millisecond),
		queue.WithWorkerLogger(logger.Discard()),
	}, opts...)
	w, err := queue.NewWorker(repo, opts...)
	require.NoError(t, err)
	return w
}

func TestNewWorker(t *testing.T) {
	t.Parallel()

	_, err := queue.NewWorker(nil)
	assert.ErrorIs(t, err, queue.ErrRepositoryNil)

	w, err := queue.NewWorker(new(MockWorkerRepository),
		queue.WithQueues("a", "b"),
		queue.WithLockTimeout(time.Minute),
		queue.WithMaxConcurrentTasks(3))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, w.ID())
}

func TestWorker_StartStop(t *testing.T) {
	t.Parallel()

	t.Run("no handlers", func(t *testing.T) {
		t.Parallel()
		w := newWorker(t, new(MockWorkerRepository))
		assert.ErrorIs(t, w.Start(context.Background()), queue.ErrNoHandlers)
	})

	t.Run("stop before start", func(t *testing.T) {
		t.Parallel()
		w := newWorker(t, new(MockWorkerRepository))
		assert.ErrorIs(t, w.Stop(), queue.ErrWorkerNotStarted)
	})

	t.Run("double start", func(t *testing.T) {
		t.Parallel()
		repo := new(MockWorkerRepository)
		repo.On("ClaimTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, queue.ErrNoTaskToClaim).Maybe()

		w := newWorker(t, repo)
		require.NoError(t, w.RegisterHandler(queue.NewTaskHandler(func(context.Context, testPayload) error { return nil })))
		require.NoError(t, w.Start(context.Background()))
		assert.ErrorIs(t, w.Start(context.Background()), queue.ErrWorkerAlreadyStarted)
		require.NoError(t, w.Stop())
	})
}

func TestWorker_ProcessesEnqueuedTasks(t *testing.T) {
	t.Parallel()

	storage := newMemoryStorage(t)
	enqueuer, err := queue.NewEnqueuer(storage)
	require.NoError(t, err)

	var sum atomic.Int64
	w := newWorker(t, storage, queue.WithMaxConcurrentTasks(4))
	require.NoError(t, w.RegisterHandlers(
		queue.NewTaskHandler(func(_ context.Context, p testPayload) error {
			sum.Add(int64(p.Value))
			return nil
		}),
		nil,
	))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx)() }()

	for i := 1; i <= 5; i++ {
		require.NoError(t, enqueuer.Enqueue(context.Background(), testPayload{Value: i}))
	}

	assert.Eventually(t, func() bool { return sum.Load() == 15 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestWorker_RetriesThenDeadLetters(t *testing.T) {
	t.Parallel()

	storage := newMemoryStorage(t, queue.WithMemoryRetryBackoff(0))
	enqueuer, err := queue.NewEnqueuer(storage)
	require.NoError(t, err)

	var attempts atomic.Int32
	w := newWorker(t, storage)
	require.NoError(t, w.RegisterHandler(queue.NewTaskHandler(func(context.Context, testPayload) error {
		attempts.Add(1)
		return errors.New("always fails")
	})))

	require.NoError(t, enqueuer.Enqueue(context.Background(), testPayload{}, queue.WithMaxRetries(3)))
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	assert.Eventually(t, func() bool {
		dead, _ := storage.DeadLetters(context.Background())
		return len(dead) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(3), attempts.Load())

	dead, err := storage.DeadLetters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "always fails", dead[0].Error)
}

func TestWorker_PermanentFailureSkipsRetries(t *testing.T) {
	t.Parallel()

	storage := newMemoryStorage(t, queue.WithMemoryRetryBackoff(0))
	enqueuer, err := queue.NewEnqueuer(storage)
	require.NoError(t, err)

	var attempts atomic.Int32
	w := newWorker(t, storage)
	require.NoError(t, w.RegisterHandler(queue.NewTaskHandler(func(context.Context, testPayload) error {
		attempts.Add(1)
		return queue.Permanent(errors.New("invalid job"))
	})))

	require.NoError(t, enqueuer.Enqueue(context.Background(), testPayload{}, queue.WithMaxRetries(5)))
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	assert.Eventually(t, func() bool {
		dead, _ := storage.DeadLetters(context.Background())
		return len(dead) == 1
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestWorker_MissingHandlerGoesToDLQ(t *testing.T) {
	t.Parallel()

	task := &queue.Task{ID: uuid.New(), Queue: queue.DefaultQueueName, TaskName: "unknown", MaxRetries: 3}

	repo := new(MockWorkerRepository)
	repo.On("ClaimTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(task, nil).Once()
	repo.On("ClaimTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, queue.ErrNoTaskToClaim).Maybe()

	dlq := make(chan struct{})
	repo.On("FailTask", mock.Anything, task.ID, mock.Anything).Return(nil).Once()
	repo.On("MoveToDLQ", mock.Anything, task.ID).Return(nil).Once().Run(func(mock.Arguments) { close(dlq) })

	w := newWorker(t, repo)
	require.NoError(t, w.RegisterHandler(queue.NewTaskHandler(func(context.Context, testPayload) error { return nil })))
	require.NoError(t, w.Start(context.Background()))

	select {
	case <-dlq:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not dead-lettered")
	}
	require.NoError(t, w.Stop())
	repo.AssertExpectations(t)
}

func TestWorker_PanicIsTreatedAsFailure(t *testing.T) {
	t.Parallel()

	storage := newMemoryStorage(t, queue.WithMemoryRetryBackoff(0))
	enqueuer, err := queue.NewEnqueuer(storage)
	require.NoError(t, err)

	w := newWorker(t, storage)
	require.NoError(t, w.RegisterHandler(queue.NewTaskHandler(func(context.Context, testPayload) error {
		panic("kaboom")
	})))

	require.NoError(t, enqueuer.Enqueue(context.Background(), testPayload{}, queue.WithMaxRetries(1)))
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	assert.Eventually(t, func() bool {
		dead, _ := storage.DeadLetters(context.Background())
		return len(dead) == 1 && dead[0].Error == "panic in handler: kaboom"
	}, 2*time.Second, 10*time.Millisecond)
}
