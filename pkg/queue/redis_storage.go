package queue

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/filemanager/pkg/logger"
)

// RedisStorage implements EnqueuerRepository and WorkerRepository on Redis.
//
// Layout under the key prefix:
//
//	<prefix>:task:<id>        task JSON
//	<prefix>:pending:<queue>  ZSET of ready/delayed task ids scored by scheduled time (ms)
//	<prefix>:processing       ZSET of claimed task ids scored by lock expiry (ms)
//	<prefix>:dlq              LIST of dead-lettered task JSON
//
// A task is claimed by whichever worker removes its id from the pending set,
// so concurrent workers never process the same attempt.
type RedisStorage struct {
	client       redis.UniversalClient
	prefix       string
	backoff      time.Duration
	completedTTL time.Duration
	claimBatch   int64
	lockCheck    time.Duration
	logger       *slog.Logger
}

// RedisStorageOption configures RedisStorage.
type RedisStorageOption func(*RedisStorage)

// WithKeyPrefix sets the key namespace.
func WithKeyPrefix(prefix string) RedisStorageOption {
	return func(s *RedisStorage) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithRetryBackoff sets the linear retry backoff step.
func WithRetryBackoff(step time.Duration) RedisStorageOption {
	return func(s *RedisStorage) {
		if step >= 0 {
			s.backoff = step
		}
	}
}

// WithCompletedTTL sets how long finished tasks are kept for inspection.
func WithCompletedTTL(ttl time.Duration) RedisStorageOption {
	return func(s *RedisStorage) {
		if ttl > 0 {
			s.completedTTL = ttl
		}
	}
}

// WithLockRecoveryInterval sets how often Run returns expired locks to the
// pending set.
func WithLockRecoveryInterval(d time.Duration) RedisStorageOption {
	return func(s *RedisStorage) {
		if d > 0 {
			s.lockCheck = d
		}
	}
}

// WithStorageLogger sets the logger used by Run.
func WithStorageLogger(l *slog.Logger) RedisStorageOption {
	return func(s *RedisStorage) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewRedisStorage creates a Redis backed storage.
func NewRedisStorage(client redis.UniversalClient, opts ...RedisStorageOption) *RedisStorage {
	s := &RedisStorage{
		client:       client,
		prefix:       "queue",
		backoff:      30 * time.Second,
		completedTTL: 24 * time.Hour,
		claimBatch:   16,
		lockCheck:    10 * time.Second,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStorage) taskKey(id uuid.UUID) string { return s.prefix + ":task:" + id.String() }
func (s *RedisStorage) pendingKey(q string) string  { return s.prefix + ":pending:" + q }
func (s *RedisStorage) processingKey() string       { return s.prefix + ":processing" }
func (s *RedisStorage) dlqKey() string              { return s.prefix + ":dlq" }

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// CreateTask implements EnqueuerRepository.
func (s *RedisStorage) CreateTask(ctx context.Context, task *Task) error {
	if task == nil {
		return ErrTaskNil
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPayloadMarshal, err)
	}

	created, err := s.client.SetNX(ctx, s.taskKey(task.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if !created {
		return fmt.Errorf("%w: %s", ErrTaskExists, task.ID)
	}

	if err := s.client.ZAdd(ctx, s.pendingKey(task.Queue), redis.Z{
		Score:  score(task.ScheduledAt),
		Member: task.ID.String(),
	}).Err(); err != nil {
		_ = s.client.Del(context.WithoutCancel(ctx), s.taskKey(task.ID)).Err()
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return nil
}

// ClaimTask implements WorkerRepository. Ready tasks are ranked by priority,
// then by scheduled time, within a bounded window per queue.
func (s *RedisStorage) ClaimTask(ctx context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*Task, error) {
	now := time.Now()
	maxScore := strconv.FormatInt(now.UnixMilli(), 10)

	var candidates []*Task
	for _, q := range queues {
		ids, err := s.client.ZRangeByScore(ctx, s.pendingKey(q), &redis.ZRangeBy{
			Min:   "-inf",
			Max:   maxScore,
			Count: s.claimBatch,
		}).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		if len(ids) == 0 {
			continue
		}

		tasks, err := s.loadMany(ctx, q, ids)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, tasks...)
	}

	slices.SortStableFunc(candidates, func(a, b *Task) int {
		if a.Priority != b.Priority {
			return cmp.Compare(b.Priority, a.Priority)
		}
		return a.ScheduledAt.Compare(b.ScheduledAt)
	})

	for _, task := range candidates {
		removed, err := s.client.ZRem(ctx, s.pendingKey(task.Queue), task.ID.String()).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		if removed == 0 {
			continue // claimed by another worker
		}

		lockUntil := now.Add(lockDuration)
		task.Status = TaskStatusProcessing
		task.LockedUntil = &lockUntil
		task.LockedBy = &workerID

		if err := s.save(ctx, task, 0, func(pipe redis.Pipeliner) {
			pipe.ZAdd(ctx, s.processingKey(), redis.Z{Score: score(lockUntil), Member: task.ID.String()})
		}); err != nil {
			return nil, err
		}
		return task, nil
	}

	return nil, ErrNoTaskToClaim
}

// CompleteTask implements WorkerRepository.
func (s *RedisStorage) CompleteTask(ctx context.Context, taskID uuid.UUID) error {
	task, err := s.processingTask(ctx, taskID)
	if err != nil {
		return err
	}

	now := time.Now()
	task.Status = TaskStatusCompleted
	task.ProcessedAt = &now
	task.LockedUntil = nil
	task.LockedBy = nil

	return s.save(ctx, task, s.completedTTL, func(pipe redis.Pipeliner) {
		pipe.ZRem(ctx, s.processingKey(), taskID.String())
	})
}

// FailTask implements WorkerRepository.
func (s *RedisStorage) FailTask(ctx context.Context, taskID uuid.UUID, errorMsg string) error {
	task, err := s.processingTask(ctx, taskID)
	if err != nil {
		return err
	}

	task.RetryCount++
	task.Error = &errorMsg
	task.LockedUntil = nil
	task.LockedBy = nil

	if task.RetryCount >= task.MaxRetries {
		task.Status = TaskStatusFailed
		return s.save(ctx, task, s.completedTTL, func(pipe redis.Pipeliner) {
			pipe.ZRem(ctx, s.processingKey(), taskID.String())
		})
	}

	task.Status = TaskStatusPending
	task.ScheduledAt = time.Now().Add(linearBackoff(s.backoff, task.RetryCount))
	return s.save(ctx, task, 0, func(pipe redis.Pipeliner) {
		pipe.ZRem(ctx, s.processingKey(), taskID.String())
		pipe.ZAdd(ctx, s.pendingKey(task.Queue), redis.Z{Score: score(task.ScheduledAt), Member: taskID.String()})
	})
}

// MoveToDLQ implements WorkerRepository.
func (s *RedisStorage) MoveToDLQ(ctx context.Context, taskID uuid.UUID) error {
	task, err := s.load(ctx, taskID)
	if err != nil {
		return err
	}

	entry, err := json.Marshal(newDLQEntry(task, time.Now()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPayloadMarshal, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, s.dlqKey(), entry)
		pipe.Del(ctx, s.taskKey(taskID))
		pipe.ZRem(ctx, s.processingKey(), taskID.String())
		pipe.ZRem(ctx, s.pendingKey(task.Queue), taskID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return nil
}

// GetTask returns a stored task.
func (s *RedisStorage) GetTask(ctx context.Context, taskID uuid.UUID) (*Task, error) {
	return s.load(ctx, taskID)
}

// DeadLetters returns the dead-letter list, oldest first.
func (s *RedisStorage) DeadLetters(ctx context.Context) ([]TasksDlq, error) {
	raw, err := s.client.LRange(ctx, s.dlqKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	out := make([]TasksDlq, 0, len(raw))
	for _, r := range raw {
		var entry TasksDlq
		if err := json.Unmarshal([]byte(r), &entry); err != nil {
			return nil, fmt.Errorf("%w: decode dlq entry: %v", ErrStorageFailure, err)
		}
		out = append(out, entry)
	}
	return out, nil
}

// RecoverExpiredLocks moves tasks whose lock has expired back to pending and
// returns how many were recovered.
func (s *RedisStorage) RecoverExpiredLocks(ctx context.Context) (int, error) {
	now := time.Now()
	ids, err := s.client.ZRangeByScore(ctx, s.processingKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	recovered := 0
	for _, raw := range ids {
		removed, err := s.client.ZRem(ctx, s.processingKey(), raw).Result()
		if err != nil {
			return recovered, fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		if removed == 0 {
			continue
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		task, err := s.load(ctx, id)
		if errors.Is(err, ErrTaskNotFound) {
			continue
		}
		if err != nil {
			return recovered, err
		}
		if task.Status != TaskStatusProcessing {
			continue
		}

		task.Status = TaskStatusPending
		task.LockedUntil = nil
		task.LockedBy = nil
		if err := s.save(ctx, task, 0, func(pipe redis.Pipeliner) {
			pipe.ZAdd(ctx, s.pendingKey(task.Queue), redis.Z{Score: score(now), Member: raw})
		}); err != nil {
			return recovered, err
		}
		recovered++
	}

	return recovered, nil
}

// Run periodically recovers expired locks until ctx is done. The returned
// function is suitable for errgroup.
func (s *RedisStorage) Run(ctx context.Context) func() error {
	return func() error {
		ticker := time.NewTicker(s.lockCheck)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n, err := s.RecoverExpiredLocks(ctx)
				if err != nil && !errors.Is(err, context.Canceled) {
					s.logger.ErrorContext(ctx, "lock recovery failed",
						logger.Component("queue.storage"), logger.Error(err))
					continue
				}
				if n > 0 {
					s.logger.WarnContext(ctx, "recovered tasks with expired locks",
						logger.Component("queue.storage"), slog.Int("count", n))
				}
			}
		}
	}
}

func (s *RedisStorage) load(ctx context.Context, taskID uuid.UUID) (*Task, error) {
	raw, err := s.client.Get(ctx, s.taskKey(taskID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	var task Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("%w: decode task %s: %v", ErrStorageFailure, taskID, err)
	}
	return &task, nil
}

// loadMany fetches tasks for pending ids of queue q, dropping index entries
// whose task record is gone.
func (s *RedisStorage) loadMany(ctx context.Context, q string, ids []string) ([]*Task, error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.prefix+":task:"+id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	tasks := make([]*Task, 0, len(values))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			_ = s.client.ZRem(ctx, s.pendingKey(q), ids[i]).Err()
			continue
		}
		var task Task
		if err := json.Unmarshal([]byte(str), &task); err != nil {
			continue
		}
		tasks = append(tasks, &task)
	}
	return tasks, nil
}

func (s *RedisStorage) processingTask(ctx context.Context, taskID uuid.UUID) (*Task, error) {
	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != TaskStatusProcessing {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotProcessing, taskID)
	}
	return task, nil
}

// save writes the task and any index updates in one MULTI/EXEC.
func (s *RedisStorage) save(ctx context.Context, task *Task, ttl time.Duration, extra func(redis.Pipeliner)) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPayloadMarshal, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.taskKey(task.ID), data, ttl)
		if extra != nil {
			extra(pipe)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return nil
}
