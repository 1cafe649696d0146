package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/minicanvas-api/internal/dto"
	appErrors "github.com/noah-isme/minicanvas-api/pkg/errors"
	"github.com/noah-isme/minicanvas-api/pkg/jobs"
)

// JobTypeCourseSync identifies queued course sync jobs.
const JobTypeCourseSync = "course_sync"

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type courseSyncer interface {
	SyncWithDatabase(ctx context.Context) error
}

type syncObserver interface {
	ObserveSync(backend string, duration time.Duration, err error)
	ObserveDeadLetter(backend string)
}

// SyncService enqueues course sync jobs on demand or on a fixed interval.
type SyncService struct {
	queue  jobDispatcher
	logger *zap.Logger
	now    func() time.Time
}

// NewSyncService constructs a SyncService. A nil queue means sync is disabled.
func NewSyncService(queue jobDispatcher, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{queue: queue, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Trigger enqueues one sync job.
func (s *SyncService) Trigger(_ context.Context) (*dto.SyncJobResponse, error) {
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "course sync is disabled")
	}
	job := jobs.Job{ID: uuid.NewString(), Type: JobTypeCourseSync, Key: JobTypeCourseSync, Enqueued: s.now()}
	if err := s.queue.Enqueue(job); err != nil {
		if errors.Is(err, jobs.ErrDuplicate) {
			return nil, appErrors.WrapAs(err, appErrors.ErrConflict, "course sync already pending")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to enqueue course sync")
	}
	s.logger.Sugar().Infow("course sync enqueued", "job_id", job.ID)
	return &dto.SyncJobResponse{JobID: job.ID, EnqueuedAt: job.Enqueued}, nil
}

// Schedule enqueues a sync job every interval until ctx is cancelled.
func (s *SyncService) Schedule(ctx context.Context, interval time.Duration) {
	if s.queue == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Trigger(ctx); err != nil {
				if errors.Is(err, appErrors.ErrConflict) {
					continue
				}
				s.logger.Sugar().Warnw("scheduled course sync not enqueued", "error", err)
			}
		}
	}
}

// SyncWorker bridges queue jobs to CourseManager.SyncWithDatabase.
type SyncWorker struct {
	courses courseSyncer
	metrics syncObserver
	backend string
	logger  *zap.Logger
}

// NewSyncWorker constructs a SyncWorker labelled with the persistence backend name.
func NewSyncWorker(courses courseSyncer, metrics syncObserver, backend string, logger *zap.Logger) *SyncWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncWorker{courses: courses, metrics: metrics, backend: backend, logger: logger}
}

// Handle processes a queue job.
func (w *SyncWorker) Handle(ctx context.Context, job jobs.Job) error {
	if job.Type != JobTypeCourseSync {
		w.logger.Sugar().Warnw("ignoring unknown job type", "job_id", job.ID, "type", job.Type)
		return nil
	}
	start := time.Now()
	err := w.courses.SyncWithDatabase(ctx)
	if w.metrics != nil {
		w.metrics.ObserveSync(w.backend, time.Since(start), err)
	}
	if err != nil {
		return err
	}
	w.logger.Sugar().Infow("course sync finished", "job_id", job.ID, "backend", w.backend, "attempt", job.Attempt)
	return nil
}

// DeadLetter is a jobs.FailureHandler for sync jobs that exhausted their retries.
func (w *SyncWorker) DeadLetter(job jobs.Job, err error) {
	if w.metrics != nil {
		w.metrics.ObserveDeadLetter(w.backend)
	}
	w.logger.Sugar().Errorw("course sync abandoned", "job_id", job.ID, "backend", w.backend, "attempts", job.Attempt, "error", err)
}
