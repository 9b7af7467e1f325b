package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/filemanager/pkg/api"
	"github.com/dmitrymomot/filemanager/pkg/blob"
	"github.com/dmitrymomot/filemanager/pkg/config"
	"github.com/dmitrymomot/filemanager/pkg/files"
	"github.com/dmitrymomot/filemanager/pkg/httpserver"
	"github.com/dmitrymomot/filemanager/pkg/logger"
	"github.com/dmitrymomot/filemanager/pkg/mongo"
	"github.com/dmitrymomot/filemanager/pkg/queue"
	"github.com/dmitrymomot/filemanager/pkg/redis"
	"github.com/dmitrymomot/filemanager/pkg/requestid"
	"github.com/dmitrymomot/filemanager/pkg/session"
	"github.com/dmitrymomot/filemanager/pkg/thumbnail"
)

type appConfig struct {
	Log       logger.Config
	Mongo     mongo.Config
	Redis     redis.Config
	HTTP      httpserver.Config
	API       api.Config
	Session   session.Config
	Blob      blob.Config
	Queue     queue.Config
	Thumbnail thumbnail.Config
}

func main() {
	if err := run(); err != nil {
		slog.Error("filemanager stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.NewFromConfig(cfg.Log, logger.WithContextExtractors(requestid.LoggerExtractor()))
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Client().Disconnect(disconnectCtx); err != nil {
			log.Error("mongo disconnect failed", logger.Error(err))
		}
	}()

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error("redis close failed", logger.Error(err))
		}
	}()

	repo := files.NewMongoRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return err
	}

	blobs, err := blob.New(ctx, cfg.Blob)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	storage, err := newQueueStorage(gctx, g, cfg.Queue, rdb, log)
	if err != nil {
		return err
	}

	enqueuer, err := queue.NewEnqueuer(storage,
		queue.WithDefaultQueue(cfg.Thumbnail.Queue),
		queue.WithDefaultMaxRetries(cfg.Queue.MaxRetries))
	if err != nil {
		return err
	}
	dispatcher := thumbnail.NewDispatcher(enqueuer, cfg.Thumbnail, thumbnail.WithDispatcherLogger(log))

	processor := thumbnail.NewProcessor(repo, blobs, cfg.Thumbnail.Widths,
		thumbnail.WithRenderer(thumbnail.NewScaleRenderer(thumbnail.WithMaxPixels(cfg.Thumbnail.MaxPixels))),
		thumbnail.WithProcessorLogger(log))
	worker, err := queue.NewWorker(storage,
		queue.WithQueues(cfg.Thumbnail.Queue),
		queue.WithPullInterval(cfg.Queue.PollInterval),
		queue.WithLockTimeout(cfg.Queue.LockTimeout),
		queue.WithMaxConcurrentTasks(cfg.Queue.MaxConcurrentTasks),
		queue.WithWorkerLogger(log))
	if err != nil {
		return err
	}
	if err := worker.RegisterHandler(processor.Handler()); err != nil {
		return err
	}

	svc := files.NewService(repo, blobs,
		files.WithDispatcher(dispatcher),
		files.WithDerivativeWidths(cfg.Thumbnail.Widths...),
		files.WithLogger(log))

	sessions := session.NewRedisStore(rdb)
	auth := session.NewAuthenticator(sessions, session.NewHeaderTransport(cfg.Session.Header), session.WithLogger(log))

	router := api.New(svc, auth,
		api.WithConfig(cfg.API),
		api.WithLogger(log),
		api.WithStatusChecks(map[string]httpserver.Check{
			"db":    mongo.Healthcheck(db.Client()),
			"redis": redis.Healthcheck(rdb),
		}),
	).Router()

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))

	g.Go(dispatcher.Run(gctx))
	g.Go(worker.Run(gctx))
	g.Go(func() error { return srv.Run(gctx, router) })

	log.Info("filemanager started",
		slog.String("addr", cfg.HTTP.Addr),
		slog.String("blob_driver", cfg.Blob.Driver),
		slog.String("queue_storage", cfg.Queue.Storage))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("filemanager stopped")
	return nil
}

type queueStorage interface {
	queue.EnqueuerRepository
	queue.WorkerRepository
}

func newQueueStorage(ctx context.Context, g *errgroup.Group, cfg queue.Config, rdb *goredis.Client, log *slog.Logger) (queueStorage, error) {
	switch cfg.Storage {
	case "", queue.StorageRedis:
		s := queue.NewRedisStorage(rdb,
			queue.WithKeyPrefix(cfg.KeyPrefix),
			queue.WithRetryBackoff(cfg.RetryBackoff),
			queue.WithCompletedTTL(cfg.CompletedTTL),
			queue.WithStorageLogger(log))
		g.Go(s.Run(ctx))
		return s, nil
	case queue.StorageMemory:
		s := queue.NewMemoryStorage(queue.WithMemoryRetryBackoff(cfg.RetryBackoff))
		g.Go(func() error {
			<-ctx.Done()
			return s.Close()
		})
		return s, nil
	default:
		return nil, fmt.Errorf("unknown queue storage %q", cfg.Storage)
	}
}
