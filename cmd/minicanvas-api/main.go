package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/minicanvas-api/api/swagger"
	"github.com/noah-isme/minicanvas-api/internal/handler"
	"github.com/noah-isme/minicanvas-api/internal/models"
	"github.com/noah-isme/minicanvas-api/internal/repository"
	"github.com/noah-isme/minicanvas-api/internal/service"
	"github.com/noah-isme/minicanvas-api/pkg/cache"
	"github.com/noah-isme/minicanvas-api/pkg/config"
	"github.com/noah-isme/minicanvas-api/pkg/database"
	"github.com/noah-isme/minicanvas-api/pkg/jobs"
	"github.com/noah-isme/minicanvas-api/pkg/logger"
	"github.com/noah-isme/minicanvas-api/pkg/sequence"
	"github.com/noah-isme/minicanvas-api/pkg/storage"
)

// @title miniCanvas API
// @version 1.0.0
// @description Courses, users, assignments and submissions held in memory
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

type courseStore interface {
	SaveCourses(ctx context.Context, courses []models.Course) error
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := make(map[string]handler.ReadinessCheck)

	var redisClient *redis.Client
	if cfg.Sequence.Backend == config.SequenceRedis || cfg.Sync.Backend == config.SyncRedis {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		redisClient = client
		checks["redis"] = cache.Readiness(client)
	}

	var db *sqlx.DB
	if cfg.Sync.Backend == config.SyncPostgres {
		conn, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer conn.Close()
		db = conn
		checks["postgres"] = database.Readiness(conn)
	}

	courseIDs, userIDs := newGenerators(cfg, redisClient, logr)

	store, err := newCourseStore(ctx, cfg, db, redisClient, logr)
	if err != nil {
		return err
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	courses := service.NewCourseManager(courseIDs, store, validate, logr.Named("courses"))
	users := service.NewUserManager(userIDs, service.UserManagerConfig{BcryptCost: cfg.Passwords.BcryptCost}, validate, logr.Named("users"))
	if err := metrics.RegisterCollectionGauges(courses.Count, users.Count); err != nil {
		return err
	}

	if snapshots, ok := store.(*repository.CacheRepository); ok {
		restored, err := courses.Restore(ctx, snapshots)
		if err != nil {
			return fmt.Errorf("restore courses: %w", err)
		}
		logr.Sugar().Infow("course snapshot restored", "key", snapshots.SnapshotKey(), "count", restored)
	}

	syncSvc := service.NewSyncService(nil, logr)
	if store != nil {
		worker := service.NewSyncWorker(courses, metrics, cfg.Sync.Backend, logr.Named("sync"))
		queue := jobs.NewQueue("course-sync", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Sync.WorkerConcurrency,
			MaxRetries: cfg.Sync.WorkerRetries,
			OnFailure:  worker.DeadLetter,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		syncSvc = service.NewSyncService(queue, logr)
		go syncSvc.Schedule(ctx, cfg.Sync.Interval)
	}

	router := handler.NewRouter(cfg, handler.RouterDeps{
		System:      handler.NewSystemHandler(checks),
		Courses:     handler.NewCourseHandler(courses, service.NewRosterService(courses, users, nil, nil)),
		Assignments: handler.NewAssignmentHandler(courses),
		Users:       handler.NewUserHandler(users),
		Sync:        handler.NewSyncHandler(syncSvc),
		Metrics:     handler.NewMetricsHandler(metrics.Handler()),
		Observer:    metrics,
		Logger:      logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "sync_backend", cfg.Sync.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := courses.SyncWithDatabase(shutdownCtx); err != nil {
		logr.Sugar().Warnw("final course sync failed", "error", err)
	}
	return nil
}

func newGenerators(cfg *config.Config, client *redis.Client, logr *zap.Logger) (sequence.Generator, sequence.Generator) {
	if cfg.Sequence.Backend == config.SequenceRedis && client != nil {
		courseIDs := sequence.NewRedisCounter(client, cfg.Sequence.KeyPrefix+":courses")
		userIDs := sequence.NewRedisCounter(client, cfg.Sequence.KeyPrefix+":users")
		logr.Sugar().Infow("shared id sequences", "courses", courseIDs.Key(), "users", userIDs.Key())
		return courseIDs, userIDs
	}
	return sequence.NewCounter(), sequence.NewCounter()
}

// newCourseStore returns nil when sync is disabled.
func newCourseStore(ctx context.Context, cfg *config.Config, db *sqlx.DB, client *redis.Client, logr *zap.Logger) (courseStore, error) {
	switch cfg.Sync.Backend {
	case config.SyncFile:
		local, err := storage.NewLocalStorage(cfg.Sync.SnapshotDir)
		if err != nil {
			return nil, err
		}
		return repository.NewFileSnapshotRepository(local, cfg.Sync.SnapshotRetention, logr.Named("snapshots")), nil
	case config.SyncPostgres:
		repo := repository.NewCourseSnapshotRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	case config.SyncRedis:
		return repository.NewCacheRepository(client, cfg.Sync.RedisKey, logr.Named("snapshots")), nil
	case config.SyncNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown SYNC_BACKEND %q", cfg.Sync.Backend)
	}
}
